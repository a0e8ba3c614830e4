package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/omnigo/leadbooker/internal"
	"github.com/omnigo/leadbooker/internal/config"
	"github.com/omnigo/leadbooker/internal/sqlite"
)

var ConfigureCommand = _configureCommand{
	Name:        "configure",
	Description: "Connect a team member's calendar and register it under a department",
}

type _configureCommand struct {
	Name        string
	Description string
}

func (s _configureCommand) Run(ctx context.Context, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open(sqlite.DriverName, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	storage, err := sqlite.NewStorage(db)
	if err != nil {
		return err
	}

	googleCal, err := newGoogleClient(cfg, zap.NewNop())
	if err != nil {
		return fmt.Errorf("creating google client: %w", err)
	}

	w := flag.CommandLine.Output()

	authToken, err := googleCal.Login(ctx, func(authURL string) {
		fmt.Fprintf(w, "Go to the following link in your browser\n%s\n", authURL)
	})
	if err != nil {
		return fmt.Errorf("google: logging in: %w", err)
	}
	email, err := googleCal.Email(ctx, authToken)
	if err != nil {
		return fmt.Errorf("google: getting email: %w", err)
	}

	acc := internal.Account{
		Platform: googleProvider,
		Email:    email,
		Auth:     string(authToken),
	}
	fmt.Fprintf(w, "Saving account %q...\n", acc.Email)
	if err := storage.SaveAccount(ctx, &acc); err != nil {
		return fmt.Errorf("saving account: %w", err)
	}

	cal := &internal.Calendar{
		ProviderID: email,
		Account:    acc,
	}
	fmt.Fprint(w, "Department for this calendar: ")
	fmt.Scanln(&cal.Department)
	fmt.Fprint(w, "Team member name: ")
	fmt.Scanln(&cal.Owner)
	fmt.Fprintf(w, "Calendar ID (empty for %q): ", email)
	var providerID string
	fmt.Scanln(&providerID)
	if providerID != "" {
		cal.ProviderID = providerID
	}

	if err := storage.UpsertCalendar(ctx, cal); err != nil {
		return fmt.Errorf("registering calendar: %w", err)
	}
	fmt.Fprintf(w, "Calendar %q registered under department %q\n", cal.ProviderID, cal.Department)
	return nil
}
