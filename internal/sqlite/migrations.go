package sqlite

func (s Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		email VARCHAR NOT NULL PRIMARY KEY,
		platform VARCHAR NOT NULL DEFAULT 'google',
		auth TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS calendars (
		department VARCHAR NOT NULL,
		owner VARCHAR NOT NULL,
		provider_id VARCHAR NOT NULL,
		account_email VARCHAR NULL DEFAULT NULL,
		PRIMARY KEY (department, provider_id),
		FOREIGN KEY (account_email) REFERENCES accounts (email)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		event_id VARCHAR NOT NULL PRIMARY KEY,
		calendar_id VARCHAR NOT NULL,
		summary VARCHAR NOT NULL,
		starts_at TIMESTAMP NOT NULL,
		ends_at TIMESTAMP NOT NULL,
		meet_link VARCHAR NOT NULL DEFAULT '',
		attendees TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}
