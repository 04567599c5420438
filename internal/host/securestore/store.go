package securestore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/employcd/employcd/internal/common"
	"github.com/employcd/employcd/internal/cryptox"
	"github.com/employcd/employcd/internal/filex"
	"github.com/employcd/employcd/internal/logging"
)

const (
	keyFileName  = ".key"
	recordPrefix = "secure-"
	recordSuffix = ".dat"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// newKey is a seam for tests that exercise key-generation failure.
var newKey = cryptox.NewKey

// Store is the capability the bridge publishes to the UI process.
type Store interface {
	Set(key, value string) bool
	Get(key string) *string
	Delete(key string) bool
}

// FileStore is a Store persisting encrypted records under a directory.
// It is safe for concurrent use.
type FileStore struct {
	dir    string
	key    []byte
	logger logging.Logger

	mu sync.Mutex
}

var _ Store = (*FileStore)(nil)

// Open prepares dir, loads the key file or creates it on first run, and
// returns a ready store.
func Open(dir string, logger logging.Logger) (*FileStore, error) {
	if _, err := filex.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	key, err := loadOrCreateKey(filepath.Join(dir, keyFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	return &FileStore{dir: dir, key: key, logger: logger.With("module", "securestore")}, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(b)))
		if err != nil || len(key) != cryptox.KeySize {
			return nil, fmt.Errorf("key file %s is malformed", path)
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	key, err := newKey()
	if err != nil {
		return nil, err
	}
	if err := filex.WriteFileAtomic(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("persist key file: %w", err)
	}
	return key, nil
}

// Dir returns the directory holding the key file and records.
func (s *FileStore) Dir() string {
	return s.dir
}

// Set encrypts value under a fresh IV and replaces the record for key.
func (s *FileStore) Set(key, value string) bool {
	if err := s.put(key, value); err != nil {
		s.logger.Error(context.Background(), "secure storage set failed", "key", key, "error", err)
		return false
	}
	return true
}

// Get returns the decrypted value for key, or nil.
func (s *FileStore) Get(key string) *string {
	v, err := s.lookup(key)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(context.Background(), "secure storage get failed", "key", key, "error", err)
		}
		return nil
	}
	return &v
}

// Delete removes the record for key. A missing record counts as success.
func (s *FileStore) Delete(key string) bool {
	if err := s.remove(key); err != nil {
		s.logger.Error(context.Background(), "secure storage delete failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *FileStore) recordPath(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidStorageKey, key)
	}
	return filepath.Join(s.dir, recordPrefix+key+recordSuffix), nil
}

func (s *FileStore) put(key, value string) error {
	path, err := s.recordPath(key)
	if err != nil {
		return err
	}

	record, err := cryptox.SealString(value, s.key)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrCryptoFailure, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return filex.WriteFileAtomic(path, []byte(record), 0o600)
}

func (s *FileStore) lookup(key string) (string, error) {
	path, err := s.recordPath(key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	b, err := os.ReadFile(path)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", common.ErrorNotFound
		}
		return "", err
	}

	v, err := cryptox.OpenString(string(b), s.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrCryptoFailure, err)
	}
	return v, nil
}

func (s *FileStore) remove(key string) error {
	path, err := s.recordPath(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
