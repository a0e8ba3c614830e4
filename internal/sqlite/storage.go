// Package sqlite persists connected accounts, the department->calendar
// registry and a log of confirmed bookings.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/omnigo/leadbooker/internal"
)

const DriverName = "sqlite3"

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sql.DB) (*Storage, error) {
	s := &Storage{
		db: sqlx.NewDb(db, DriverName),
	}
	if err := s.RunMigrations(); err != nil {
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return s, nil
}

// SaveAccount stores or refreshes the OAuth token of a connected account.
func (s Storage) SaveAccount(ctx context.Context, account *internal.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (email, platform, auth) VALUES (?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET platform=excluded.platform, auth=excluded.auth;
	`, account.Email, account.Platform, account.Auth)
	return err
}

// UpsertCalendar registers a bookable calendar under a department.
func (s Storage) UpsertCalendar(ctx context.Context, cal *internal.Calendar) error {
	accountEmail := sql.NullString{}
	if cal.Account.Email != "" {
		accountEmail = sql.NullString{String: cal.Account.Email, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calendars (department, owner, provider_id, account_email)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(department, provider_id) DO UPDATE
			SET owner = excluded.owner,
			    account_email = excluded.account_email;
	`, cal.Department, cal.Owner, cal.ProviderID, accountEmail)
	return err
}

// CalendarsByDepartment returns the bookable calendars of a department, each
// carrying its account token when one was connected.
func (s Storage) CalendarsByDepartment(ctx context.Context, department string) ([]*internal.Calendar, error) {
	var cals []Calendar

	err := s.db.SelectContext(ctx, &cals, `
		SELECT c.department, c.owner, c.provider_id,
		       COALESCE(a.email, '') AS account_email,
		       COALESCE(a.platform, '') AS account_platform,
		       COALESCE(a.auth, '') AS auth
		FROM calendars c
		LEFT JOIN accounts a ON a.email = c.account_email
		WHERE c.department = ?
		ORDER BY c.owner
	`, department)
	if err != nil {
		return nil, err
	}

	res := make([]*internal.Calendar, len(cals))
	for i, c := range cals {
		res[i] = c.Convert()
	}
	return res, nil
}

// CalendarByID looks a calendar up by its platform id. A nil result without
// an error means the calendar was never registered; callers then fall back
// to service-account access.
func (s Storage) CalendarByID(ctx context.Context, providerID string) (*internal.Calendar, error) {
	var cal Calendar

	err := s.db.GetContext(ctx, &cal, `
		SELECT c.department, c.owner, c.provider_id,
		       COALESCE(a.email, '') AS account_email,
		       COALESCE(a.platform, '') AS account_platform,
		       COALESCE(a.auth, '') AS auth
		FROM calendars c
		LEFT JOIN accounts a ON a.email = c.account_email
		WHERE c.provider_id = ?
		LIMIT 1
	`, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cal.Convert(), nil
}

// RecordBooking appends a confirmed booking to the local log. The remote
// event already exists at this point; the log is bookkeeping, not source of
// truth.
func (s Storage) RecordBooking(ctx context.Context, cal *internal.Calendar, conf *internal.BookingConfirmation, summary string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (event_id, calendar_id, summary, starts_at, ends_at, meet_link, attendees)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, conf.EventID, cal.ProviderID, summary, conf.StartsAt, conf.EndsAt, conf.MeetLink,
		strings.Join(conf.Attendees, ","))
	return err
}
