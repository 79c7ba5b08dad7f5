// Package backup snapshots project and support files before they are
// modified, and restores them on rollback.
//
// Each snapshot slot lives in its own directory holding a YAML manifest and
// one zstd compressed blob per file.
package backup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/klauspost/compress/zstd"
	rfs "go.trai.ch/rugby/internal/adapters/fs"
	"go.trai.ch/rugby/internal/core/domain"
	"go.trai.ch/rugby/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const manifestFileName = "manifest.yaml"

var _ ports.BackupManager = (*Manager)(nil)

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("backup: zstd encoder initialization failed: " + err.Error())
	}
	decoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("backup: zstd decoder initialization failed: " + err.Error())
	}
}

type manifest struct {
	Kind      domain.BackupKind `yaml:"kind"`
	CreatedAt time.Time         `yaml:"createdAt"`
	Files     []entry           `yaml:"files"`
}

type entry struct {
	Path string `yaml:"path"`
	Blob string `yaml:"blob,omitempty"`
	Mode uint32 `yaml:"mode,omitempty"`
	Size int64  `yaml:"size"`
	// Absent marks a file that did not exist when the snapshot was taken.
	Absent bool `yaml:"absent,omitempty"`
}

// Manager implements ports.BackupManager on the local filesystem.
type Manager struct {
	dir string
	now func() time.Time
}

// NewManager creates a manager storing snapshots under dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: filepath.Clean(dir), now: time.Now}
}

// Backup snapshots files into the kind slot. An existing original snapshot is kept as is.
func (m *Manager) Backup(ctx context.Context, kind domain.BackupKind, files []string) error {
	if kind == domain.BackupOriginal && m.exists(kind) {
		return nil
	}

	if err := os.MkdirAll(m.dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBackupFailed.Error()), "path", m.dir)
	}
	tmp, err := os.MkdirTemp(m.dir, "."+string(kind)+"-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBackupFailed.Error()), "path", m.dir)
	}
	defer os.RemoveAll(tmp) //nolint:errcheck // Already renamed on success

	man := manifest{Kind: kind, CreatedAt: m.now().UTC()}
	for _, path := range uniquePaths(files) {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := snapshot(tmp, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrBackupFailed.Error()), "path", path)
		}
		man.Files = append(man.Files, e)
	}

	data, err := yaml.Marshal(&man)
	if err != nil {
		return zerr.Wrap(err, domain.ErrBackupFailed.Error())
	}
	if err := os.WriteFile(filepath.Join(tmp, manifestFileName), data, domain.PrivateFilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrBackupFailed.Error())
	}

	slot := m.slot(kind)
	if err := os.RemoveAll(slot); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBackupFailed.Error()), "path", slot)
	}
	if err := os.Rename(tmp, slot); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrBackupFailed.Error()), "path", slot)
	}
	return nil
}

func snapshot(dir, path string) (entry, error) {
	e := entry{Path: path}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		e.Absent = true
		return e, nil
	}
	if err != nil {
		return e, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // paths come from the change set
	if err != nil {
		return e, err
	}
	e.Blob = blobName(path)
	e.Mode = uint32(info.Mode().Perm())
	e.Size = int64(len(data))
	if err := os.WriteFile(filepath.Join(dir, e.Blob), encoder.EncodeAll(data, nil), domain.PrivateFilePerm); err != nil {
		return e, err
	}
	return e, nil
}

// Restore writes back every file recorded in the kind slot. Files that fail
// are reported and the remaining files are still restored.
func (m *Manager) Restore(ctx context.Context, kind domain.BackupKind) (*domain.RollbackReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	man, err := m.readManifest(kind)
	if err != nil {
		return nil, err
	}

	report := &domain.RollbackReport{Kind: kind, Failed: make(map[string]error)}
	slot := m.slot(kind)
	for _, e := range man.Files {
		if err := restore(slot, e); err != nil {
			report.Failed[e.Path] = err
			continue
		}
		report.Restored = append(report.Restored, e.Path)
	}

	if len(report.Failed) > 0 {
		errs := make([]error, 0, len(report.Failed))
		for _, path := range domain.SortedKeys(report.Failed) {
			errs = append(errs, zerr.With(report.Failed[path], "path", path))
		}
		partial := zerr.With(zerr.Wrap(domain.ErrPartialRollback, "restore "+string(kind)), "failed", len(report.Failed))
		return report, errors.Join(append([]error{partial}, errs...)...)
	}
	return report, nil
}

func restore(slot string, e entry) error {
	if e.Absent {
		if err := os.Remove(e.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}

	compressed, err := os.ReadFile(filepath.Join(slot, e.Blob)) //nolint:gosec // blob names are derived hashes
	if err != nil {
		return err
	}
	data, err := decoder.DecodeAll(compressed, make([]byte, 0, e.Size))
	if err != nil {
		return zerr.Wrap(err, "failed to decompress backup")
	}
	if err := os.MkdirAll(filepath.Dir(e.Path), domain.DirPerm); err != nil {
		return err
	}
	mode := fs.FileMode(e.Mode)
	if mode == 0 {
		mode = domain.FilePerm
	}
	return rfs.WriteFileAtomic(e.Path, data, mode)
}

// Rollback restores the original snapshot, or the last run snapshot when no
// original exists. Snapshots are removed after a complete restore.
func (m *Manager) Rollback(ctx context.Context) (*domain.RollbackReport, error) {
	kind := domain.BackupOriginal
	if !m.exists(kind) {
		kind = domain.BackupLastRun
	}
	if !m.exists(kind) {
		return nil, domain.ErrNoBackup
	}

	report, err := m.Restore(ctx, kind)
	if err != nil {
		return report, err
	}

	for _, k := range []domain.BackupKind{domain.BackupOriginal, domain.BackupLastRun} {
		if err := os.RemoveAll(m.slot(k)); err != nil {
			return report, zerr.With(zerr.Wrap(err, "failed to remove backup"), "path", m.slot(k))
		}
	}
	return report, nil
}

func (m *Manager) readManifest(kind domain.BackupKind) (*manifest, error) {
	data, err := os.ReadFile(filepath.Join(m.slot(kind), manifestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.Wrap(domain.ErrNoBackup, string(kind))
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read backup manifest"), "kind", string(kind))
	}
	var man manifest
	if err := yaml.Unmarshal(data, &man); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse backup manifest"), "kind", string(kind))
	}
	return &man, nil
}

func (m *Manager) exists(kind domain.BackupKind) bool {
	_, err := os.Stat(filepath.Join(m.slot(kind), manifestFileName))
	return err == nil
}

func (m *Manager) slot(kind domain.BackupKind) string {
	return filepath.Join(m.dir, string(kind))
}

func blobName(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:]) + ".zst"
}

func uniquePaths(files []string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			f = abs
		}
		out = append(out, filepath.Clean(f))
	}
	slices.Sort(out)
	return slices.Compact(out)
}
