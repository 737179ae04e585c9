package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"stocksim/internal/model"
)

// SnapshotStore keeps a JSON copy of the account on disk alongside the
// relational store. At load time the two are reconciled; the snapshot exists
// so a run survives the relational backend being wiped or unreachable.
type SnapshotStore struct {
	path string
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load reads the snapshot. A missing file returns os.ErrNotExist.
func (s *SnapshotStore) Load() (model.Account, error) {
	var acct model.Account
	data, err := os.ReadFile(s.path)
	if err != nil {
		return acct, err
	}
	if err := json.Unmarshal(data, &acct); err != nil {
		return acct, err
	}
	return acct, nil
}

// Save writes the snapshot atomically via a temp file rename.
func (s *SnapshotStore) Save(acct model.Account) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(acct, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
