package internal

import (
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/manuscript/internal/models"
	"github.com/starford/manuscript/internal/render"
	"github.com/starford/manuscript/internal/site"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Site  SiteConfig        `yaml:"site"`
	Index IndexConfig       `yaml:"index"`
	Tags  models.Vocabulary `yaml:"tags"`
	Watch WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	if err := c.Index.Validate(); err != nil {
		return err
	}
	if err := c.Tags.Validate(); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
	)
}

// SiteConfig describes where the site lives and the strings its pages carry.
// Every directory except Root is relative to Root.
type SiteConfig struct {
	Root       string `yaml:"root"`
	RawDir     string `yaml:"raw_dir"`
	NotesDir   string `yaml:"notes_dir"`
	RecordsDir string `yaml:"records_dir"`
	HrefPrefix string `yaml:"href_prefix"`

	Lang      string `yaml:"lang"`
	Title     string `yaml:"title"`
	Owner     string `yaml:"owner"`
	BackLabel string `yaml:"back_label"`
	EmptyBody string `yaml:"empty_body"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.RawDir, validation.Required, validation.By(relativePath)),
		validation.Field(&c.NotesDir, validation.Required, validation.By(relativePath)),
		validation.Field(&c.RecordsDir, validation.Required, validation.By(relativePath)),
		validation.Field(&c.HrefPrefix, validation.Required),
		validation.Field(&c.Lang, validation.Required),
	)
}

// IndexConfig describes the index page and the derived aggregate pages.
type IndexConfig struct {
	Path          string `yaml:"path"`
	AllPath       string `yaml:"all_path"`
	ArchivePath   string `yaml:"archive_path"`
	RecentHeading string `yaml:"recent_heading"`
	RecentStart   string `yaml:"recent_start"`
	RecentEnd     string `yaml:"recent_end"`
	RecentLimit   int    `yaml:"recent_limit"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required, validation.By(relativePath)),
		validation.Field(&c.AllPath, validation.Required, validation.By(relativePath)),
		validation.Field(&c.ArchivePath, validation.Required, validation.By(relativePath)),
		validation.Field(&c.RecentHeading, validation.Required),
		validation.Field(&c.RecentStart, validation.Required),
		validation.Field(&c.RecentEnd, validation.Required, validation.NotIn(c.RecentStart)),
		validation.Field(&c.RecentLimit, validation.Required, validation.Min(1)),
	)
}

// WatchConfig holds watch mode configuration.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(10*time.Millisecond)),
	)
}

func relativePath(value interface{}) error {
	s, _ := value.(string)
	if filepath.IsAbs(s) {
		return errors.New("must be relative to the site root")
	}
	return nil
}

// Settings converts the configuration into the site service layout.
func (c *Config) Settings() site.Settings {
	return site.Settings{
		RawDir:        c.Site.RawDir,
		NotesDir:      c.Site.NotesDir,
		RecordsDir:    c.Site.RecordsDir,
		IndexPath:     c.Index.Path,
		AllPath:       c.Index.AllPath,
		ArchivePath:   c.Index.ArchivePath,
		HrefPrefix:    c.Site.HrefPrefix,
		RecentHeading: c.Index.RecentHeading,
		RecentStart:   c.Index.RecentStart,
		RecentEnd:     c.Index.RecentEnd,
		RecentLimit:   c.Index.RecentLimit,
		Vocabulary:    c.Tags,
		Render: render.Options{
			Lang:      c.Site.Lang,
			SiteTitle: c.Site.Title,
			Owner:     c.Site.Owner,
			BackLabel: c.Site.BackLabel,
			EmptyBody: c.Site.EmptyBody,
		},
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	page := render.DefaultOptions()
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
		},
		Site: SiteConfig{
			Root:       ".",
			RawDir:     "raw",
			NotesDir:   "notes",
			RecordsDir: filepath.Join("notes", ".records"),
			HrefPrefix: models.DefaultHrefPrefix,
			Lang:       page.Lang,
			Title:      page.SiteTitle,
			Owner:      page.Owner,
			BackLabel:  page.BackLabel,
			EmptyBody:  page.EmptyBody,
		},
		Index: IndexConfig{
			Path:          "index.html",
			AllPath:       "all.html",
			ArchivePath:   "archive.html",
			RecentHeading: "最近更新",
			RecentStart:   "<!-- AUTOGEN_RECENT_START -->",
			RecentEnd:     "<!-- AUTOGEN_RECENT_END -->",
			RecentLimit:   8,
		},
		Tags: models.DefaultVocabulary(),
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}
