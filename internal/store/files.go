package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

type fileStore struct {
	dir string
}

// Files returns a Store that keeps one {date, content} JSON file per source in dir.
// A missing, unreadable or malformed file reads as a miss.
func Files(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (f *fileStore) path(sourceID string) string {
	return filepath.Join(f.dir, sourceID+".json")
}

func (f *fileStore) Get(_ context.Context, sourceID string) (Entry, bool, error) {
	if err := validateKey(sourceID); err != nil {
		return Entry{}, false, err
	}
	data, err := os.ReadFile(f.path(sourceID))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("file cache: unreadable entry", "source", sourceID, "error", err)
		}
		return Entry{}, false, nil
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.Warn("file cache: malformed entry", "source", sourceID, "error", err)
		return Entry{}, false, nil
	}
	if err := validateEntry(entry); err != nil {
		slog.Warn("file cache: invalid entry", "source", sourceID, "error", err)
		return Entry{}, false, nil
	}
	return entry, true, nil
}

// Put writes to a temp file and renames it over the old entry so readers never see a partial file.
func (f *fileStore) Put(_ context.Context, sourceID string, entry Entry) error {
	if err := validateKey(sourceID); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s entry: %w", sourceID, err)
	}
	tmp, err := os.CreateTemp(f.dir, sourceID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s entry: %w", sourceID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s entry: %w", sourceID, err)
	}
	if err := os.Rename(tmp.Name(), f.path(sourceID)); err != nil {
		return fmt.Errorf("replace %s entry: %w", sourceID, err)
	}
	return nil
}
