package catalog

import (
	"context"
	"io"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/elicit/internal/model"
)

// catalogFile is the top-level YAML structure.
type catalogFile struct {
	Categories []model.Category `yaml:"categories"`
}

// Decode parses a YAML catalog without validating it.
func Decode(r io.Reader) ([]model.Category, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}
	return f.Categories, nil
}

// LoadFile reads and parses a YAML catalog from path.
func LoadFile(path string) ([]model.Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	cats, err := Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: load %s", path)
	}
	return cats, nil
}

// FileStore serves categories loaded once from a YAML file.
type FileStore struct {
	byKey map[string]*model.Category
	names []string
}

// NewFileStore loads path. Invalid or duplicate categories are skipped with
// a warning.
func NewFileStore(path string) (*FileStore, error) {
	cats, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryStore(cats), nil
}

// NewMemoryStore builds a FileStore from already-decoded categories.
func NewMemoryStore(cats []model.Category) *FileStore {
	s := &FileStore{byKey: make(map[string]*model.Category, len(cats))}
	for i := range cats {
		cat := cats[i]
		if err := ValidateCategory(&cat); err != nil {
			zap.L().Warn("catalog: skipping invalid category",
				zap.String("category", cat.Name),
				zap.Error(err),
			)
			continue
		}
		key := Key(cat.Name)
		if _, dup := s.byKey[key]; dup {
			zap.L().Warn("catalog: skipping duplicate category", zap.String("category", cat.Name))
			continue
		}
		s.byKey[key] = &cat
		s.names = append(s.names, key)
	}
	sort.Strings(s.names)
	return s
}

// Get returns the category named name, compared case-insensitively.
func (s *FileStore) Get(_ context.Context, name string) (*model.Category, error) {
	cat, ok := s.byKey[Key(name)]
	if !ok {
		return nil, eris.Wrapf(ErrCategoryNotFound, "catalog: get %q", name)
	}
	return cat, nil
}

// List returns every category ordered by name.
func (s *FileStore) List(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(s.names))
	for _, k := range s.names {
		out = append(out, *s.byKey[k])
	}
	return out, nil
}

// Put is unsupported; file catalogs are edited on disk.
func (s *FileStore) Put(_ context.Context, _ *model.Category) error {
	return ErrReadOnly
}

// Migrate is a no-op.
func (s *FileStore) Migrate(_ context.Context) error { return nil }

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
