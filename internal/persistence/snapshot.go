package persistence

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/harvest-hope/internal/state"
)

// SnapshotHeader is a plain-JSON first line so a snapshot can be
// identified without decoding the body.
type SnapshotHeader struct {
	Version   int    `json:"version"`
	PlayerID  string `json:"player_id"`
	Day       int    `json:"day"`
	Season    string `json:"season"`
	CreatedAt string `json:"created_at"`
}

// Snapshot is the portable export format: one compressed file a player can
// move between installations, independent of the SQLite database.
type Snapshot struct {
	Header SnapshotHeader
	State  state.GameState
}

const snapshotVersion = 1

// WriteSnapshot exports a game state to a zstd-compressed file with a JSON
// header line followed by the gob body.
func WriteSnapshot(path string, gs *state.GameState) error {
	if err := Validate(gs); err != nil {
		return fmt.Errorf("validate snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return err
	}

	bw := bufio.NewWriter(enc)

	snap := Snapshot{
		Header: SnapshotHeader{
			Version:   snapshotVersion,
			PlayerID:  gs.PlayerID,
			Day:       gs.Farm.Day,
			Season:    gs.Season.String(),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
		State: *gs,
	}

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		f.Close()
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("gob encode: %w", err)
	}

	// Most bytes only hit the disk here; a failed flush or close means a
	// truncated snapshot and must surface to the caller.
	if err := bw.Flush(); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close compressor: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot file: %w", err)
	}
	return nil
}

// ReadSnapshot imports a snapshot file and revalidates its state.
func ReadSnapshot(path string) (*state.GameState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)

	// Header line is informational; the gob body carries it too.
	if _, err := br.ReadBytes('\n'); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}

	var snap Snapshot
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	if snap.Header.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Header.Version)
	}
	if err := Validate(&snap.State); err != nil {
		return nil, fmt.Errorf("validate imported snapshot: %w", err)
	}
	return &snap.State, nil
}
