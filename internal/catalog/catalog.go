// Package catalog keeps a YAML sidecar record for every rendered article so
// the rebuild pipeline does not have to recover notes from markup.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/manuscript/internal/apperr"
	"github.com/starford/manuscript/internal/checksum"
	"github.com/starford/manuscript/internal/models"
	"github.com/starford/manuscript/internal/parser"
	"github.com/starford/manuscript/internal/storage"
)

// Record is the persisted form of a note. Checksum fingerprints the article
// bytes the record was written alongside.
type Record struct {
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Tag      string `yaml:"tag"`
	Checksum string `yaml:"checksum"`
}

// Catalog stores records as {dir}/{article stem}.yaml.
type Catalog struct {
	store storage.Provider
	dir   string
}

// New creates a catalog rooted at dir (relative to the store root).
func New(store storage.Provider, dir string) *Catalog {
	return &Catalog{store: store, dir: dir}
}

func (c *Catalog) path(article string) string {
	base := filepath.Base(article)
	return filepath.Join(c.dir, strings.TrimSuffix(base, filepath.Ext(base))+".yaml")
}

// Put records note as the source of the article whose rendered bytes are page.
func (c *Catalog) Put(note *models.Note, page []byte) error {
	data, err := yaml.Marshal(&Record{
		Title:    models.CleanTitle(note.Title),
		Date:     note.Date,
		Tag:      note.Tag,
		Checksum: checksum.Sum(page),
	})
	if err != nil {
		return fmt.Errorf("catalog: encode %s: %w", note.Filename, err)
	}
	if err := c.store.Write(c.path(note.Filename), data); err != nil {
		return fmt.Errorf("catalog: write %s: %w", note.Filename, err)
	}
	return nil
}

// Get returns the stored record for article, or apperr.ErrNotFound.
func (c *Catalog) Get(article string) (*Record, error) {
	data, err := c.store.Read(c.path(article))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w: %v", article, apperr.ErrInvalidRecord, err)
	}
	return &rec, nil
}

// Lookup returns the note for article when a record exists and still
// matches page. ok is false when the caller must fall back to reparsing.
// A damaged record yields an error wrapping apperr.ErrInvalidRecord.
func (c *Catalog) Lookup(article string, page []byte, hrefPrefix string) (note *models.Note, ok bool, err error) {
	rec, err := c.Get(article)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !checksum.Match(page, rec.Checksum) {
		return nil, false, nil
	}

	t, err := parser.ParseDate(rec.Date)
	if err != nil {
		return nil, false, fmt.Errorf("catalog: %s: %w: %v", article, apperr.ErrInvalidRecord, err)
	}
	base := filepath.Base(article)
	return &models.Note{
		Title:    models.CleanTitle(rec.Title),
		Date:     rec.Date,
		Time:     t,
		Tag:      rec.Tag,
		Filename: base,
		Href:     models.JoinHref(hrefPrefix, base),
	}, true, nil
}
