package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL, which carries the append-only logs:
// helper contact interactions and the admin audit trail.
func ConnectPostgres(postgresURI string) error {
	var err error

	PostgresDB, err = sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	PostgresDB.SetMaxOpenConns(25)
	PostgresDB.SetMaxIdleConns(5)
	PostgresDB.SetConnMaxLifetime(5 * time.Minute)

	if err = PostgresDB.Ping(); err != nil {
		return err
	}

	log.Println("✅ Connected to PostgreSQL")

	return InitPostgresTables()
}

// InitPostgresTables creates the log tables if they don't exist.
// Both tables are insert-only: there is no update or delete path.
func InitPostgresTables() error {
	queries := []string{
		// Contact events between employers and helpers
		`CREATE TABLE IF NOT EXISTS interactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			helper_profile_id VARCHAR(64) NOT NULL,
			employer_user_id VARCHAR(64) NOT NULL,
			helper_user_id VARCHAR(64) NOT NULL,
			type VARCHAR(50) NOT NULL
		)`,

		// Admin actions (role changes, flag toggles, report resolutions, cleanup runs)
		`CREATE TABLE IF NOT EXISTS audit_log (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			admin_user_id VARCHAR(64) NOT NULL,
			action VARCHAR(100) NOT NULL,
			target_type VARCHAR(50),
			target_id VARCHAR(64),
			detail TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_interactions_helper_profile_id ON interactions(helper_profile_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_helper_user_id ON interactions(helper_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_created_at ON interactions(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_admin_user_id ON audit_log(admin_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
