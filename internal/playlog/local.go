package playlog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// LocalProvider keeps the log as a JSON array file on disk. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// truncated log behind.
type LocalProvider struct {
	Path string
}

func NewLocalProvider(path string) *LocalProvider {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	return &LocalProvider{Path: path}
}

func (l *LocalProvider) Load(_ context.Context) ([]Entry, error) {
	data, err := os.ReadFile(l.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt log is advisory data; start over rather than wedge the
		// append path.
		return nil, nil
	}
	return entries, nil
}

func (l *LocalProvider) Store(_ context.Context, entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := l.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, l.Path)
}
