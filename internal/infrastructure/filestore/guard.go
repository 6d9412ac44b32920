package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// maxGuardKeys bounds the per-profile key file; the oldest entries go first.
const maxGuardKeys = 200

type guardEntry struct {
	Key     string `json:"key"`
	OrderID string `json:"orderId"`
}

// SubmitGuard implements ports.SubmitGuard for the CLI. Keys are kept per
// profile in <profile>.orders.json next to the session file.
type SubmitGuard struct {
	dir string
}

func NewSubmitGuard(dir string) *SubmitGuard {
	return &SubmitGuard{dir: dir}
}

func (g *SubmitGuard) Lookup(_ context.Context, profile, key string) (string, bool, error) {
	entries, _, err := g.load(profile)
	if err != nil {
		return "", false, err
	}
	for _, e := range entries {
		if e.Key == key {
			return e.OrderID, true, nil
		}
	}
	return "", false, nil
}

func (g *SubmitGuard) Remember(_ context.Context, profile, key, orderID string) error {
	entries, path, err := g.load(profile)
	if err != nil {
		return err
	}
	entries = append(entries, guardEntry{Key: key, OrderID: orderID})
	if len(entries) > maxGuardKeys {
		entries = entries[len(entries)-maxGuardKeys:]
	}
	if err := writeJSON(g.dir, path, entries); err != nil {
		return fmt.Errorf("write submit keys: %w", err)
	}
	return nil
}

func (g *SubmitGuard) load(profile string) ([]guardEntry, string, error) {
	path, err := profilePath(g.dir, profile, ".orders.json")
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, path, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read submit keys: %w", err)
	}
	var entries []guardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, "", fmt.Errorf("decode submit keys %s: %w", path, err)
	}
	return entries, path, nil
}
