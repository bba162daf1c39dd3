// Package site runs the ingest and rebuild pipelines over a site directory.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/starford/manuscript/internal/apperr"
	"github.com/starford/manuscript/internal/catalog"
	"github.com/starford/manuscript/internal/models"
	"github.com/starford/manuscript/internal/parser"
	"github.com/starford/manuscript/internal/region"
	"github.com/starford/manuscript/internal/render"
	"github.com/starford/manuscript/internal/reparse"
	"github.com/starford/manuscript/internal/storage"
)

// Settings describes the site layout. Paths are relative to the store root.
type Settings struct {
	RawDir      string
	NotesDir    string
	RecordsDir  string
	IndexPath   string
	AllPath     string
	ArchivePath string
	HrefPrefix  string

	RecentHeading string
	RecentStart   string
	RecentEnd     string
	RecentLimit   int

	Vocabulary models.Vocabulary
	Render     render.Options
}

// Service coordinates storage, parsing and rendering.
type Service struct {
	store   storage.Provider
	catalog *catalog.Catalog
	cfg     Settings
	logger  *slog.Logger
}

// NewService creates a new site service.
func NewService(store storage.Provider, cfg Settings, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog.New(store, cfg.RecordsDir),
		cfg:     cfg,
		logger:  logger,
	}
}

// IngestReport summarises one ingest run.
type IngestReport struct {
	Generated []string
	Existing  int
	Failed    int
	Inserted  int
}

// RebuildReport summarises one rebuild run.
type RebuildReport struct {
	Notes  int
	Recent int
}

// Ingest renders every raw note that has no article yet and links the new
// articles from the index page's recent list.
//
// Unparseable raw files are logged and skipped. A missing index page or
// recent-updates section aborts the run.
func (s *Service) Ingest(ctx context.Context) (*IngestReport, error) {
	report := &IngestReport{}

	for _, dir := range []string{s.cfg.RawDir, s.cfg.NotesDir} {
		if err := s.store.EnsureDir(dir); err != nil {
			return report, err
		}
	}

	files, err := s.store.List(s.cfg.RawDir, ".txt")
	if err != nil {
		return report, err
	}
	if len(files) == 0 {
		s.logger.Info("ingest: no raw notes", slog.String("dir", s.cfg.RawDir))
		return report, nil
	}

	index, err := s.store.Read(s.cfg.IndexPath)
	if err != nil {
		return report, fmt.Errorf("site: read index: %w", err)
	}

	opts := parser.Options{HrefPrefix: s.cfg.HrefPrefix, DefaultTag: s.cfg.Vocabulary.Default}
	var fresh []*models.Note
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		data, err := s.store.Read(file)
		if err != nil {
			s.logger.Warn("ingest: skip", slog.String("file", file), slog.String("error", err.Error()))
			report.Failed++
			continue
		}
		note, err := parser.ParseRaw(data, opts)
		if err != nil {
			s.logger.Warn("ingest: skip", slog.String("file", file), slog.String("error", err.Error()))
			report.Failed++
			continue
		}

		out := filepath.Join(s.cfg.NotesDir, note.Filename)
		exists, err := s.store.Exists(out)
		if err != nil {
			return report, err
		}
		if exists {
			report.Existing++
			s.logger.Debug("ingest: article exists", slog.String("path", out))
			continue
		}

		page := []byte(render.Article(note, s.cfg.Render))
		if err := s.store.Write(out, page); err != nil {
			return report, fmt.Errorf("site: write article: %w", err)
		}
		if err := s.catalog.Put(note, page); err != nil {
			return report, err
		}
		fresh = append(fresh, note)
		report.Generated = append(report.Generated, out)
		s.logger.Info("ingest: generated", slog.String("path", out))
	}

	if len(fresh) == 0 {
		s.logger.Info("ingest: no new articles")
		return report, nil
	}

	render.SortByDateDesc(fresh)
	entries := make([]region.Entry, len(fresh))
	for i, n := range fresh {
		entries[i] = region.Entry{Key: n.Href, HTML: render.IndexItem(n)}
	}

	updated, inserted, err := region.Prepend(string(index), region.Section{Heading: s.cfg.RecentHeading}, entries)
	if err != nil {
		return report, fmt.Errorf("site: update index: %w", err)
	}
	if inserted == 0 {
		s.logger.Info("ingest: index already links every article", slog.String("path", s.cfg.IndexPath))
		return report, nil
	}
	if err := s.store.Write(s.cfg.IndexPath, []byte(updated)); err != nil {
		return report, fmt.Errorf("site: write index: %w", err)
	}
	report.Inserted = inserted
	s.logger.Info("ingest: index updated", slog.String("path", s.cfg.IndexPath), slog.Int("inserted", inserted))
	return report, nil
}

// Rebuild regenerates the tag listing and the archive from every rendered
// article, then refreshes the marker-delimited recent list on the index page.
//
// Any article whose date cannot be recovered aborts the run, as does a
// missing marker pair.
func (s *Service) Rebuild(ctx context.Context) (*RebuildReport, error) {
	notes, err := s.LoadNotes(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.Write(s.cfg.AllPath, []byte(render.TagListing(notes, s.cfg.Vocabulary, s.cfg.Render))); err != nil {
		return nil, fmt.Errorf("site: write listing: %w", err)
	}
	if err := s.store.Write(s.cfg.ArchivePath, []byte(render.Archive(notes, s.cfg.Render))); err != nil {
		return nil, fmt.Errorf("site: write archive: %w", err)
	}

	index, err := s.store.Read(s.cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("site: read index: %w", err)
	}
	recent := notes[:min(s.cfg.RecentLimit, len(notes))]
	body := "\n" + render.RecentItems(recent) + "\n        "
	updated, err := region.Replace(string(index), region.Markers{Start: s.cfg.RecentStart, End: s.cfg.RecentEnd}, body)
	if err != nil {
		return nil, fmt.Errorf("site: update index: %w", err)
	}
	if err := s.store.Write(s.cfg.IndexPath, []byte(updated)); err != nil {
		return nil, fmt.Errorf("site: write index: %w", err)
	}

	s.logger.Info("rebuild: done",
		slog.Int("notes", len(notes)),
		slog.Int("recent", len(recent)),
		slog.String("listing", s.cfg.AllPath),
		slog.String("archive", s.cfg.ArchivePath))
	return &RebuildReport{Notes: len(notes), Recent: len(recent)}, nil
}

// LoadNotes returns every rendered article's record, newest first. Sidecar
// records are used when they still match the article; anything else is
// recovered from the markup.
func (s *Service) LoadNotes(ctx context.Context) ([]*models.Note, error) {
	files, err := s.store.List(s.cfg.NotesDir, ".html")
	if err != nil {
		return nil, fmt.Errorf("site: notes dir: %w", err)
	}

	ropts := reparse.Options{Vocabulary: s.cfg.Vocabulary, HrefPrefix: s.cfg.HrefPrefix}
	notes := make([]*models.Note, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := s.store.Read(file)
		if err != nil {
			return nil, err
		}

		note, ok, err := s.catalog.Lookup(file, page, s.cfg.HrefPrefix)
		if errors.Is(err, apperr.ErrInvalidRecord) {
			s.logger.Warn("rebuild: ignore record", slog.String("path", file), slog.String("error", err.Error()))
			ok, err = false, nil
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			note, err = reparse.Article(file, page, ropts)
			if err != nil {
				return nil, err
			}
			s.logger.Debug("rebuild: recovered from markup", slog.String("path", file))
		}
		notes = append(notes, note)
	}

	render.SortByDateDesc(notes)
	return notes, nil
}
