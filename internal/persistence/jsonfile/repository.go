// Package jsonfile persists the activity collection as a single indented JSON
// array on local storage.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"example.com/agenda/internal/domain"
)

// FileName is the collection file created inside the data directory.
const FileName = "actividades.json"

// Repository reads and overwrites the collection file. It holds no state
// between calls.
type Repository struct {
	path    string
	lenient bool
	logger  *zap.Logger
}

// Option customises a Repository.
type Option func(*Repository)

// WithLenientDecode makes Load return an empty collection instead of
// domain.ErrCorruptData when the file cannot be decoded.
func WithLenientDecode() Option {
	return func(r *Repository) { r.lenient = true }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// NewRepository builds a Repository storing FileName under dataDir.
func NewRepository(dataDir string, opts ...Option) (*Repository, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, errors.New("data directory is required")
	}
	r := &Repository{
		path:   filepath.Join(dataDir, FileName),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Path returns the collection file location.
func (r *Repository) Path() string {
	return r.path
}

// Load decodes the whole collection. A missing file is an empty collection.
func (r *Repository) Load(ctx context.Context) ([]domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Activity{}, nil
		}
		return nil, fmt.Errorf("read activities: %w", err)
	}

	activities, err := decode(data)
	if err != nil {
		if r.lenient {
			r.logger.Warn("discarding unreadable activity file", zap.String("path", r.path), zap.Error(err))
			return []domain.Activity{}, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptData, r.path, err)
	}
	return activities, nil
}

// Save overwrites the collection file atomically.
func (r *Repository) Save(ctx context.Context, activities []domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	data, err := json.MarshalIndent(activities, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal activities: %w", err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write activities: %w", err)
	}
	return nil
}

func decode(data []byte) ([]domain.Activity, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty file")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return []domain.Activity{}, nil
	}
	if trimmed[0] != '[' {
		return nil, errors.New("expected a JSON array")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	var activities []domain.Activity
	if err := dec.Decode(&activities); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("trailing content after JSON array")
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
