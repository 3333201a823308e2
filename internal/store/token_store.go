package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"rmap/internal/domain"
)

const tokensFile = "tokens.enc"

// FileTokenStore keeps the obtained link tokens in a single encrypted file
// under dir.
type FileTokenStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileTokenStore(dir string) *FileTokenStore { return &FileTokenStore{dir: dir} }

var _ domain.TokenStore = (*FileTokenStore)(nil)

// Append adds rec to the store, creating it on first use.
func (s *FileTokenStore) Append(passphrase string, rec domain.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load(passphrase)
	if err != nil {
		return err
	}
	recs = append(recs, rec)

	raw, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	sealed, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.dir, tokensFile), sealed, 0o600)
}

// List returns all stored records, oldest first.
func (s *FileTokenStore) List(passphrase string) ([]domain.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(passphrase)
}

// Latest returns the newest record for identity.
func (s *FileTokenStore) Latest(passphrase, identity string) (domain.TokenRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load(passphrase)
	if err != nil {
		return domain.TokenRecord{}, false, err
	}
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Identity == identity {
			return recs[i], true, nil
		}
	}
	return domain.TokenRecord{}, false, nil
}

// load reads and decrypts the record list; a missing file is an empty store.
func (s *FileTokenStore) load(passphrase string) ([]domain.TokenRecord, error) {
	sealed, err := os.ReadFile(filepath.Join(s.dir, tokensFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	raw, err := decrypt(passphrase, sealed)
	if err != nil {
		return nil, err
	}
	var recs []domain.TokenRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// writeAtomic writes via a temp file then rename.
func writeAtomic(path string, b []byte, mode os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, mode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
