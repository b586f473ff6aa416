package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"invite-redirector/internal/domain"
)

// FileStore keeps the record as a flat JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a file backed store. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Name() string {
	return "file"
}

func (s *FileStore) Read(ctx context.Context) (*domain.InvitationRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Backend: s.Name(), Key: s.path}
		}
		return nil, &TransportError{Backend: s.Name(), Op: "read", Err: err}
	}

	var rec domain.InvitationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &TransportError{Backend: s.Name(), Op: "decode", Err: err}
	}
	return &rec, nil
}

func (s *FileStore) Write(ctx context.Context, rec *domain.InvitationRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return &TransportError{Backend: s.Name(), Op: "write", Err: fmt.Errorf("failed to create directory: %w", err)}
	}

	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return &TransportError{Backend: s.Name(), Op: "encode", Err: err}
	}

	if err := atomic.WriteFile(s.path, buf); err != nil {
		return &TransportError{Backend: s.Name(), Op: "write", Err: err}
	}
	return nil
}
