// Package cas persists target fingerprints, one YAML record per target.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.FingerprintStore = (*Store)(nil)

// record is the on-disk layout of a fingerprint file.
type record struct {
	Target       string                `yaml:"target"`
	ID           string                `yaml:"id"`
	Fingerprints map[string]string     `yaml:"fingerprints"`
	Context      *domain.TargetContext `yaml:"context,omitempty"`
}

// Store implements ports.FingerprintStore using a file-per-target strategy.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Get retrieves the fingerprint recorded for target and configuration.
func (s *Store) Get(target *domain.Target, configuration string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(target)
	if err != nil || rec == nil {
		return "", false, err
	}
	fp, ok := rec.Fingerprints[configuration]
	return fp, ok, nil
}

// Put records fingerprint for target and configuration, keeping fingerprints
// of other configurations.
func (s *Store) Put(target *domain.Target, configuration, fingerprint string, ctx *domain.TargetContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(target)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &record{}
	}
	rec.Target = target.Name
	rec.ID = target.ID.String()
	if rec.Fingerprints == nil {
		rec.Fingerprints = make(map[string]string)
	}
	rec.Fingerprints[configuration] = fingerprint
	rec.Context = ctx

	data, err := yaml.Marshal(rec)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreCreateFailed.Error())
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(s.filename(target), data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}

	return nil
}

func (s *Store) read(target *domain.Target) (*record, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(s.filename(target))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "target", target.Name)
	}
	return &rec, nil
}

// filename keeps the target name readable and disambiguates by id.
func (s *Store) filename(target *domain.Target) string {
	hash := sha256.Sum256([]byte(target.ID.String()))
	return filepath.Join(s.dir, target.Name+"-"+hex.EncodeToString(hash[:])[:12]+".yaml")
}
