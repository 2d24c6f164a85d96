// Package storage provides the durable client-side credential stores: a
// JSON file on disk (default), Redis for shared or ephemeral environments,
// and an in-memory store for tests. Key names mirror the storage layout the
// browser build used: accessToken, refreshToken and a JSON-encoded user.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// fileRecord is the on-disk layout.
type fileRecord struct {
	AccessToken  string          `json:"accessToken,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
}

// FileStore persists credentials as a single mode-0600 JSON file. All
// methods read-modify-write under one mutex, so each key write is atomic
// with respect to the others.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load rehydrates the persisted credentials. A missing file means a fresh
// profile; a corrupt file or user record is treated as signed out rather
// than an error.
func (s *FileStore) Load(_ context.Context) (ports.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.read()
	creds := ports.Credentials{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
	}
	if len(rec.User) > 0 {
		var u domain.User
		if err := json.Unmarshal(rec.User, &u); err != nil || u.Username == "" || !u.Role.Valid() {
			s.log.Warn().Str("path", s.path).Msg("persisted user record unreadable, treating as signed out")
		} else {
			creds.User = &u
		}
	}
	return creds, nil
}

func (s *FileStore) SaveTokens(_ context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.read()
	rec.AccessToken = access
	rec.RefreshToken = refresh
	return s.write(rec)
}

func (s *FileStore) SaveAccessToken(_ context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.read()
	rec.AccessToken = access
	return s.write(rec)
}

func (s *FileStore) SaveUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	rec := s.read()
	rec.User = raw
	return s.write(rec)
}

func (s *FileStore) AccessToken(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().AccessToken, nil
}

func (s *FileStore) RefreshToken(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().RefreshToken, nil
}

// Clear removes the credentials file entirely.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// read returns the current on-disk record. Missing or corrupt files yield an
// empty record; corruption is logged once per read.
func (s *FileStore) read() fileRecord {
	var rec fileRecord

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("reading credentials file failed")
		}
		return rec
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("credentials file corrupt, ignoring")
		return fileRecord{}
	}
	return rec
}

func (s *FileStore) write(rec fileRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o600)
}
