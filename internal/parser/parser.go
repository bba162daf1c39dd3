// Package parser turns raw plain-text note files into note records.
//
// A raw note is a title line, a YYYY-MM-DD date line, then one paragraph per
// non-blank line.
package parser

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/starford/manuscript/internal/apperr"
	"github.com/starford/manuscript/internal/models"
)

// Untitled replaces titles that slugify to nothing.
const Untitled = "untitled"

const bom = "\ufeff"

var (
	unsafeRe = regexp.MustCompile(`[<>:"/\\|?*\n\r\t]`)
	spaceRe  = regexp.MustCompile(`[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)
	dateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// Line boundaries: CRLF, CR, LF, VT, FF, the file/group/record
	// separators, NEL and the Unicode line and paragraph separators.
	lineBreakRe = regexp.MustCompile(`\r\n|[\n\r\v\f\x{1c}-\x{1e}\x{85}\x{2028}\x{2029}]`)
)

// Options controls the derived fields of a parsed note.
type Options struct {
	HrefPrefix string
	DefaultTag string
}

// ParseRaw parses a raw note file.
func ParseRaw(data []byte, opts Options) (*models.Note, error) {
	lines := splitLines(strings.Trim(string(data), bom))
	if len(lines) < 2 {
		return nil, &apperr.FormatError{Field: "note", Reason: "need a title line and a date line"}
	}

	title := strings.TrimSpace(lines[0])
	date := strings.TrimSpace(lines[1])

	t, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	var paragraphs []string
	for _, ln := range lines[2:] {
		if p := strings.TrimSpace(ln); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	filename := Filename(date, title)
	return &models.Note{
		Title:      title,
		Date:       date,
		Time:       t,
		Tag:        opts.DefaultTag,
		Paragraphs: paragraphs,
		Filename:   filename,
		Href:       models.JoinHref(opts.HrefPrefix, filename),
	}, nil
}

// ParseDate validates a YYYY-MM-DD string as a real calendar date.
func ParseDate(s string) (time.Time, error) {
	if !dateRe.MatchString(s) {
		return time.Time{}, &apperr.FormatError{Field: "date", Value: s, Reason: "want YYYY-MM-DD"}
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, &apperr.FormatError{Field: "date", Value: s, Reason: "not a calendar date"}
	}
	return t, nil
}

// Filename derives the article file name for a note.
func Filename(date, title string) string {
	return date + "-" + Slugify(title) + ".html"
}

// Slugify makes title safe to use as a file name component. The result is
// never empty.
func Slugify(title string) string {
	s := norm.NFC.String(strings.TrimSpace(title))
	s = unsafeRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, " .")
	if s == "" {
		return Untitled
	}
	return s
}

// splitLines splits on any line boundary and drops the final empty line left
// by a trailing break.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := lineBreakRe.Split(s, -1)
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
