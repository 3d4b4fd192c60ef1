// Package store persists certificate templates and uploaded assets on
// the filesystem. It backs the template lifecycle (create blank, edit
// layout, duplicate, delete-independent of events) without requiring a
// database: each template is one JSON file named by its ID.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	certpdf "github.com/alnah/go-certpdf"
)

// ErrInvalidTemplateID rejects IDs that cannot be template filenames.
var ErrInvalidTemplateID = errors.New("invalid template id")

// TemplateStore is a directory of template JSON files. All methods are
// safe for concurrent use.
type TemplateStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewTemplateStore opens (creating if needed) the template directory.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating template directory: %w", err)
	}
	return &TemplateStore{dir: dir, now: time.Now}, nil
}

// Create adds a new blank template: an empty element list and no
// background, ready for the layout editor.
func (s *TemplateStore) Create(name string) (*certpdf.Template, error) {
	tpl := &certpdf.Template{
		ID:        uuid.NewString(),
		Name:      name,
		Layout:    certpdf.Layout{Elements: []certpdf.Element{}},
		CreatedAt: s.now().UTC(),
	}
	if err := s.write(tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Get retrieves a template by ID. A missing record is
// certpdf.ErrTemplateNotFound so callers can surface a clear,
// non-retryable message when an event references a deleted template.
func (s *TemplateStore) Get(id string) (*certpdf.Template, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from a validated id
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", certpdf.ErrTemplateNotFound, id)
		}
		return nil, fmt.Errorf("reading template %s: %w", id, err)
	}

	var tpl certpdf.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("decoding template %s: %w", id, err)
	}
	return &tpl, nil
}

// UpdateLayout replaces the layout of an existing template.
func (s *TemplateStore) UpdateLayout(id string, layout certpdf.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl, err := s.Get(id)
	if err != nil {
		return err
	}
	tpl.Layout = layout
	return s.writeLocked(tpl)
}

// Duplicate deep-copies a template's layout under a fresh identity.
// The copy is fully independent: edits to one never affect the other.
func (s *TemplateStore) Duplicate(id string) (*certpdf.Template, error) {
	src, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	layout, err := copyLayout(src.Layout)
	if err != nil {
		return nil, fmt.Errorf("copying layout of %s: %w", id, err)
	}

	dup := &certpdf.Template{
		ID:        uuid.NewString(),
		Name:      src.Name + " (copy)",
		Layout:    layout,
		CreatedAt: s.now().UTC(),
	}
	if err := s.write(dup); err != nil {
		return nil, err
	}
	return dup, nil
}

// Delete removes a template. Events referencing it keep their dangling
// ID; renders for them then fail with ErrTemplateNotFound.
func (s *TemplateStore) Delete(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", certpdf.ErrTemplateNotFound, id)
		}
		return fmt.Errorf("deleting template %s: %w", id, err)
	}
	return nil
}

// List returns all templates, newest first.
func (s *TemplateStore) List() ([]*certpdf.Template, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	templates := make([]*certpdf.Template, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		tpl, err := s.Get(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// Skip unreadable records rather than failing the listing.
			continue
		}
		templates = append(templates, tpl)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})
	return templates, nil
}

func (s *TemplateStore) write(tpl *certpdf.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(tpl)
}

func (s *TemplateStore) writeLocked(tpl *certpdf.Template) error {
	path, err := s.path(tpl.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(tpl, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding template %s: %w", tpl.ID, err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("writing template %s: %w", tpl.ID, err)
	}
	return nil
}

// path maps an ID onto its file, rejecting anything that could escape
// the store directory.
func (s *TemplateStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\\x00") || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplateID, id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// copyLayout deep-copies a layout via a JSON round trip so element and
// style values share no memory with the source.
func copyLayout(l certpdf.Layout) (certpdf.Layout, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return certpdf.Layout{}, err
	}
	return certpdf.ParseLayout(data)
}
