// Package persistence stores player saves in SQLite with integrity
// checksums, schema validation, and device-conflict backups.
package persistence

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/harvest-hope/internal/state"
)

var (
	// ErrNotFound means the requested save slot does not exist.
	ErrNotFound = errors.New("save not found")
	// ErrCorrupted means the stored checksum no longer matches the payload.
	ErrCorrupted = errors.New("save data corrupted")
)

// DB wraps a SQLite connection for save storage.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates a SQLite database at the given path.
// Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		player_id TEXT NOT NULL,
		save_slot TEXT NOT NULL,
		state_json TEXT NOT NULL,
		checksum TEXT NOT NULL,
		last_saved TEXT NOT NULL,
		device_id TEXT NOT NULL DEFAULT '',
		farm_name TEXT NOT NULL DEFAULT '',
		season TEXT NOT NULL DEFAULT '',
		day INTEGER NOT NULL DEFAULT 1,
		money INTEGER NOT NULL DEFAULT 0,
		is_backup INTEGER NOT NULL DEFAULT 0,
		original_slot TEXT NOT NULL DEFAULT '',
		backup_reason TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (player_id, save_slot)
	);

	CREATE TABLE IF NOT EXISTS crisis_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		severity TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_saves_player ON saves(player_id);
	CREATE INDEX IF NOT EXISTS idx_crisis_player ON crisis_log(player_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// checksum hashes the canonical JSON form of the state.
func checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// SlotSummary is the listing view of a save slot.
type SlotSummary struct {
	SaveSlot  string `db:"save_slot" json:"save_slot"`
	LastSaved string `db:"last_saved" json:"last_saved"`
	FarmName  string `db:"farm_name" json:"farm_name"`
	Season    string `db:"season" json:"season"`
	Day       int    `db:"day" json:"day"`
	Money     int64  `db:"money" json:"money"`
	DeviceID  string `db:"device_id" json:"device_id"`
	IsBackup  bool   `db:"is_backup" json:"is_backup"`
}

// Save validates and writes a game state into a slot. A save arriving from
// a different device than the last writer backs up the existing row first.
func (db *DB) Save(playerID, slot string, gs *state.GameState, deviceID string) error {
	if err := Validate(gs); err != nil {
		return fmt.Errorf("validate save: %w", err)
	}

	payload, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}
	sum := checksum(payload)
	now := db.now().UTC().Format(time.RFC3339)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Device conflict: preserve the other device's save before overwriting.
	var existingDevice string
	err = tx.Get(&existingDevice,
		"SELECT device_id FROM saves WHERE player_id = ? AND save_slot = ? AND is_backup = 0",
		playerID, slot)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil && existingDevice != "" && existingDevice != deviceID {
		backupSlot := fmt.Sprintf("%s_backup_%d", slot, db.now().Unix())
		_, err = tx.Exec(`INSERT INTO saves
			(player_id, save_slot, state_json, checksum, last_saved, device_id,
			 farm_name, season, day, money, is_backup, original_slot, backup_reason)
			SELECT player_id, ?, state_json, checksum, last_saved, device_id,
			 farm_name, season, day, money, 1, save_slot, 'device_conflict'
			FROM saves WHERE player_id = ? AND save_slot = ?`,
			backupSlot, playerID, slot)
		if err != nil {
			return fmt.Errorf("backup conflicting save: %w", err)
		}
		slog.Warn("device conflict on save slot, backup created",
			"player", playerID, "slot", slot, "backup", backupSlot)
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO saves
		(player_id, save_slot, state_json, checksum, last_saved, device_id,
		 farm_name, season, day, money, is_backup, original_slot, backup_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, '', '')`,
		playerID, slot, string(payload), sum, now, deviceID,
		gs.Farm.Name, gs.Season.String(), gs.Farm.Day, gs.Farm.Money)
	if err != nil {
		return fmt.Errorf("write save: %w", err)
	}

	return tx.Commit()
}

// Load reads a save slot, verifying the checksum and revalidating the
// payload. A checksum mismatch returns ErrCorrupted; callers can then
// consult Backups.
func (db *DB) Load(playerID, slot string) (*state.GameState, error) {
	var row struct {
		StateJSON string `db:"state_json"`
		Checksum  string `db:"checksum"`
	}
	err := db.conn.Get(&row,
		"SELECT state_json, checksum FROM saves WHERE player_id = ? AND save_slot = ?",
		playerID, slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if row.Checksum != "" && checksum([]byte(row.StateJSON)) != row.Checksum {
		return nil, ErrCorrupted
	}

	var gs state.GameState
	if err := json.Unmarshal([]byte(row.StateJSON), &gs); err != nil {
		return nil, fmt.Errorf("unmarshal save: %w", err)
	}
	if err := Validate(&gs); err != nil {
		return nil, fmt.Errorf("validate loaded save: %w", err)
	}
	return &gs, nil
}

// Slots lists a player's non-backup save slots.
func (db *DB) Slots(playerID string) ([]SlotSummary, error) {
	var slots []SlotSummary
	err := db.conn.Select(&slots, `SELECT save_slot, last_saved, farm_name,
		season, day, money, device_id, is_backup
		FROM saves WHERE player_id = ? AND is_backup = 0 ORDER BY save_slot`,
		playerID)
	return slots, err
}

// Backups lists the backup copies of a slot, newest first.
func (db *DB) Backups(playerID, originalSlot string) ([]SlotSummary, error) {
	var slots []SlotSummary
	err := db.conn.Select(&slots, `SELECT save_slot, last_saved, farm_name,
		season, day, money, device_id, is_backup
		FROM saves WHERE player_id = ? AND is_backup = 1 AND original_slot = ?
		ORDER BY last_saved DESC`,
		playerID, originalSlot)
	return slots, err
}

// DeleteSlot removes a save slot.
func (db *DB) DeleteSlot(playerID, slot string) error {
	_, err := db.conn.Exec(
		"DELETE FROM saves WHERE player_id = ? AND save_slot = ?",
		playerID, slot)
	return err
}

// CrisisRecord is one entry in the triggered-event log.
type CrisisRecord struct {
	Day         int    `db:"day" json:"day"`
	EventType   string `db:"event_type" json:"event_type"`
	Severity    string `db:"severity" json:"severity"`
	Description string `db:"description" json:"description"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

// LogCrisis appends a triggered event to the crisis log.
func (db *DB) LogCrisis(playerID string, day int, eventType, severity, description string) error {
	_, err := db.conn.Exec(`INSERT INTO crisis_log
		(player_id, day, event_type, severity, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		playerID, day, eventType, severity, description,
		db.now().UTC().Format(time.RFC3339))
	return err
}

// RecentCrises returns the latest crisis log entries for a player.
func (db *DB) RecentCrises(playerID string, limit int) ([]CrisisRecord, error) {
	var records []CrisisRecord
	err := db.conn.Select(&records, `SELECT day, event_type, severity,
		description, created_at FROM crisis_log
		WHERE player_id = ? ORDER BY id DESC LIMIT ?`,
		playerID, limit)
	return records, err
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)", key, value)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
