package config

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

const settingsSchema = `
	CREATE TABLE IF NOT EXISTS settings (
		section TEXT PRIMARY KEY,
		data    TEXT NOT NULL
	)
`

// SQLiteProvider implements ConfigProvider for SQLite database configuration.
// Each configuration section is stored as a JSON document keyed by name.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if _, err := db.Exec(settingsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create settings table: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	sections := map[string]any{
		"server":  &config.Server,
		"diagram": &config.Diagram,
		"render":  &config.Render,
	}

	rows, err := s.db.Query(`SELECT section, data FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var section, data string
		if err := rows.Scan(&section, &data); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		target, ok := sections[section]
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(data), target); err != nil {
			return nil, fmt.Errorf("failed to decode %s settings: %w", section, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return config, nil
}

// SaveConfig replaces the stored configuration with cfg
func (s *SQLiteProvider) SaveConfig(cfg *ConfigData) error {
	sections := map[string]any{
		"server":  cfg.Server,
		"diagram": cfg.Diagram,
		"render":  cfg.Render,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for section, value := range sections {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s settings: %w", section, err)
		}
		_, err = tx.Exec(`INSERT INTO settings (section, data) VALUES (?, ?)
			ON CONFLICT(section) DO UPDATE SET data = excluded.data`, section, string(data))
		if err != nil {
			return fmt.Errorf("failed to store %s settings: %w", section, err)
		}
	}

	return tx.Commit()
}

// IsReadOnly returns false since SQLite supports write operations
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
