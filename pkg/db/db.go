/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/carverauto/configwatch/pkg/logger"
	"github.com/carverauto/configwatch/pkg/models"
	"github.com/carverauto/configwatch/pkg/secrets"
)

// Schema for the configuration audit store. Applying it is idempotent; the
// owning process runs it once at startup.
const schema = `
CREATE TABLE IF NOT EXISTS configuration_settings (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    config_name   TEXT NOT NULL UNIQUE,
    config_path   TEXT NOT NULL DEFAULT '',
    config_value  TEXT NOT NULL DEFAULT '',
    is_critical   INTEGER NOT NULL DEFAULT 0,
    timestamp     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS changes (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    config_name   TEXT NOT NULL,
    old_value     TEXT NOT NULL DEFAULT '',
    new_value     TEXT NOT NULL DEFAULT '',
    acknowledged  INTEGER NOT NULL DEFAULT 0,
    critical      INTEGER NOT NULL DEFAULT 0,
    timestamp     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_changes_name_time ON changes(config_name, timestamp);
CREATE INDEX IF NOT EXISTS idx_changes_time ON changes(timestamp);

CREATE TABLE IF NOT EXISTS user_settings (
    id                      INTEGER PRIMARY KEY AUTOINCREMENT,
    user_email              TEXT NOT NULL DEFAULT '',
    phone_number            TEXT NOT NULL DEFAULT '',
    non_critical_threshold  INTEGER NOT NULL DEFAULT 0,
    notification_frequency  TEXT NOT NULL DEFAULT 'Never',
    timestamp               DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_user_settings_contact
    ON user_settings(user_email, phone_number);
`

var (
	emailPattern = regexp.MustCompile(`^[\w.\-]+@[\w\-]+(\.\w{2,})+$`)
	phonePattern = regexp.MustCompile(`^[+\-\d\s]+$`)
)

// Store is the sqlite-backed implementation of Service.
type Store struct {
	db      *sql.DB
	secrets *secrets.Provider
	logger  logger.Logger
}

// New opens or creates the database at path and applies the schema.
func New(path string, provider *secrets.Provider, log logger.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToOpen, err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_loc=UTC")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToOpen, err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrFailedToMigrate, err)
	}

	return &Store{
		db:      conn,
		secrets: provider,
		logger:  log.WithComponent("db"),
	}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertConfiguration writes the current snapshot row for an item. The
// value is encrypted before storage.
func (s *Store) UpsertConfiguration(ctx context.Context, name, path, value string, isCritical bool) error {
	encrypted, err := s.encrypt(value)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO configuration_settings (config_name, config_path, config_value, is_critical)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(config_name) DO UPDATE SET
			config_path = excluded.config_path,
			config_value = excluded.config_value,
			is_critical = excluded.is_critical,
			timestamp = CURRENT_TIMESTAMP`,
		name, path, encrypted, isCritical)
	if err != nil {
		return fmt.Errorf("db: upsert configuration %q: %w", name, err)
	}

	return nil
}

// GetAllConfigurations returns every snapshot row with values decrypted.
func (s *Store) GetAllConfigurations(ctx context.Context) ([]models.Configuration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT config_name, config_path, config_value, is_critical, timestamp
		FROM configuration_settings
		ORDER BY config_name`)
	if err != nil {
		return nil, fmt.Errorf("db: query configurations: %w", err)
	}
	defer rows.Close()

	var configs []models.Configuration

	for rows.Next() {
		var c models.Configuration

		var encrypted string

		if err := rows.Scan(&c.Name, &c.Path, &encrypted, &c.IsCritical, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("db: scan configuration: %w", err)
		}

		c.Value = s.decryptLenient(c.Name, encrypted)
		configs = append(configs, c)
	}

	return configs, rows.Err()
}

// AppendChange records one observed divergence in the append-only change
// log and returns the row id. Old and new values are encrypted.
func (s *Store) AppendChange(ctx context.Context, name, oldValue, newValue string, acknowledged, critical bool) (int64, error) {
	encOld, err := s.encrypt(oldValue)
	if err != nil {
		return 0, err
	}

	encNew, err := s.encrypt(newValue)
	if err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO changes (config_name, old_value, new_value, acknowledged, critical)
		VALUES (?, ?, ?, ?, ?)`,
		name, encOld, encNew, acknowledged, critical)
	if err != nil {
		return 0, fmt.Errorf("db: append change for %q: %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("db: last insert id: %w", err)
	}

	return id, nil
}

// AcknowledgeLatestUnacknowledged marks the most recent unacknowledged
// change row for the item. Returns false when there was nothing to
// acknowledge.
func (s *Store) AcknowledgeLatestUnacknowledged(ctx context.Context, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE changes SET acknowledged = 1
		WHERE id = (
			SELECT id FROM changes
			WHERE config_name = ? AND acknowledged = 0
			ORDER BY id DESC LIMIT 1
		)`, name)
	if err != nil {
		return false, fmt.Errorf("db: acknowledge change for %q: %w", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db: rows affected: %w", err)
	}

	return affected > 0, nil
}

// QueryChanges returns change history matching the filter, newest first,
// with old/new values decrypted. A nil filter returns everything.
func (s *Store) QueryChanges(ctx context.Context, filter *models.ChangeFilter) ([]models.ChangeEvent, error) {
	query := strings.Builder{}
	query.WriteString(`
		SELECT id, config_name, old_value, new_value, acknowledged, critical, timestamp
		FROM changes
		WHERE 1=1`)

	var args []interface{}

	if filter != nil {
		if filter.Start != nil {
			query.WriteString(" AND timestamp >= ?")
			args = append(args, filter.Start.UTC())
		}

		if filter.End != nil {
			query.WriteString(" AND timestamp <= ?")
			args = append(args, filter.End.UTC())
		}

		if filter.Name != "" {
			query.WriteString(" AND config_name = ?")
			args = append(args, filter.Name)
		}

		if filter.Acknowledged != nil {
			query.WriteString(" AND acknowledged = ?")
			args = append(args, *filter.Acknowledged)
		}

		if filter.Critical != nil {
			query.WriteString(" AND critical = ?")
			args = append(args, *filter.Critical)
		}
	}

	query.WriteString(" ORDER BY id DESC")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db: query changes: %w", err)
	}
	defer rows.Close()

	var events []models.ChangeEvent

	for rows.Next() {
		var e models.ChangeEvent

		var encOld, encNew string

		if err := rows.Scan(&e.ID, &e.Name, &encOld, &encNew, &e.Acknowledged, &e.Critical, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("db: scan change: %w", err)
		}

		e.OldValue = s.decryptLenient(e.Name, encOld)
		e.NewValue = s.decryptLenient(e.Name, encNew)
		events = append(events, e)
	}

	return events, rows.Err()
}

// AggregateChangeCounts returns per-day per-item change counts over the
// trailing window, oldest day first.
func (s *Store) AggregateChangeCounts(ctx context.Context, windowDays int) ([]models.ChangeCount, error) {
	if windowDays <= 0 {
		windowDays = 7
	}

	offset := fmt.Sprintf("-%d day", windowDays-1)

	rows, err := s.db.QueryContext(ctx, `
		SELECT date(timestamp) AS day, config_name, COUNT(*) AS change_count
		FROM changes
		WHERE date(timestamp) >= date('now', ?)
		GROUP BY day, config_name
		ORDER BY day ASC, config_name ASC`, offset)
	if err != nil {
		return nil, fmt.Errorf("db: aggregate change counts: %w", err)
	}
	defer rows.Close()

	var counts []models.ChangeCount

	for rows.Next() {
		var c models.ChangeCount

		if err := rows.Scan(&c.Date, &c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("db: scan change count: %w", err)
		}

		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// UpsertUserSettings validates and writes one settings record. The record
// is keyed by contact identifier: an existing row matching the encrypted
// email (or phone when no email is given) is updated, last write wins.
func (s *Store) UpsertUserSettings(ctx context.Context, settings *models.UserSettings) error {
	if settings.Email == "" && settings.Phone == "" {
		return ErrNoContact
	}

	if settings.Email != "" && !emailPattern.MatchString(settings.Email) {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, settings.Email)
	}

	if settings.Phone != "" && !phonePattern.MatchString(settings.Phone) {
		return fmt.Errorf("%w: %q", ErrInvalidPhone, settings.Phone)
	}

	encEmail, err := s.encrypt(settings.Email)
	if err != nil {
		return err
	}

	encPhone, err := s.encrypt(settings.Phone)
	if err != nil {
		return err
	}

	// The cipher uses a fixed IV, so equal plaintext contacts produce equal
	// ciphertext and the lookup below works on the encrypted column.
	var (
		where string
		arg   string
	)

	if settings.Email != "" {
		where, arg = "user_email = ?", encEmail
	} else {
		where, arg = "phone_number = ?", encPhone
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE user_settings SET
			user_email = ?,
			phone_number = ?,
			non_critical_threshold = ?,
			notification_frequency = ?,
			timestamp = CURRENT_TIMESTAMP
		WHERE `+where,
		encEmail, encPhone, settings.Threshold, settings.Frequency, arg)
	if err != nil {
		return fmt.Errorf("db: update user settings: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db: rows affected: %w", err)
	}

	if affected > 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_email, phone_number, non_critical_threshold, notification_frequency)
		VALUES (?, ?, ?, ?)`,
		encEmail, encPhone, settings.Threshold, settings.Frequency)
	if err != nil {
		return fmt.Errorf("db: insert user settings: %w", err)
	}

	return nil
}

// AllUserSettings returns every settings record with contacts decrypted.
func (s *Store) AllUserSettings(ctx context.Context) ([]models.UserSettings, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_email, phone_number, non_critical_threshold, notification_frequency, timestamp
		FROM user_settings
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db: query user settings: %w", err)
	}
	defer rows.Close()

	var all []models.UserSettings

	for rows.Next() {
		var u models.UserSettings

		var encEmail, encPhone string

		if err := rows.Scan(&encEmail, &encPhone, &u.Threshold, &u.Frequency, &u.Timestamp); err != nil {
			return nil, fmt.Errorf("db: scan user settings: %w", err)
		}

		u.Email = s.decryptLenient("user_email", encEmail)
		u.Phone = s.decryptLenient("phone_number", encPhone)
		all = append(all, u)
	}

	return all, rows.Err()
}

// encrypt runs plaintext through the current cipher. Empty values stay
// empty so absent contacts remain distinguishable.
func (s *Store) encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	cipher, err := s.secrets.Cipher()
	if err != nil {
		return "", err
	}

	return cipher.Encrypt(plaintext)
}

// decryptLenient decrypts a stored field, returning an empty string on
// failure. A row written under rotated-away key material is logged and
// skipped rather than aborting the whole read.
func (s *Store) decryptLenient(field, encrypted string) string {
	if encrypted == "" {
		return ""
	}

	cipher, err := s.secrets.Cipher()
	if err != nil {
		s.logger.Warn().Err(err).Str("field", field).Msg("No cipher available for decrypt")
		return ""
	}

	plaintext, err := cipher.Decrypt(encrypted)
	if err != nil {
		s.logger.Warn().Err(err).Str("field", field).Msg("Failed to decrypt stored field")
		return ""
	}

	return plaintext
}
