// Package region edits named list regions inside an index document.
//
// A region is located either by a card section heading (the ingest
// pipeline's "recent updates" list) or by a pair of literal marker comments
// (the rebuild pipeline's generated list). Both pipelines edit regions
// through Prepend and Replace.
package region

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/starford/manuscript/internal/apperr"
)

// Span is the byte range of a region's editable content within a document.
type Span struct {
	Start int
	End   int
}

// Locator finds a region within a document.
type Locator interface {
	Locate(doc string) (Span, error)
}

var (
	sectionOpenRe = regexp.MustCompile(`<section\s+class="card"[^>]*>`)
	listRe        = regexp.MustCompile(`(?s)<ul class="list">\s*(.*?)\s*</ul>`)
)

// Section locates the <ul class="list"> that follows the <h2> heading of a
// card section. The span starts after the whitespace following the opening
// <ul> tag.
type Section struct {
	Heading string
}

// Locate implements Locator.
func (s Section) Locate(doc string) (Span, error) {
	headingRe := regexp.MustCompile(`<h2>\s*` + regexp.QuoteMeta(s.Heading) + `\s*</h2>`)

	for _, open := range sectionOpenRe.FindAllStringIndex(doc, -1) {
		end := strings.Index(doc[open[1]:], "</section>")
		if end < 0 {
			break
		}
		block := doc[open[1] : open[1]+end]

		h := headingRe.FindStringIndex(block)
		if h == nil {
			continue
		}
		base := open[1] + h[1]
		m := listRe.FindStringSubmatchIndex(block[h[1]:])
		if m == nil {
			return Span{}, fmt.Errorf("%w: no list in section %q", apperr.ErrRegionNotFound, s.Heading)
		}
		return Span{Start: base + m[2], End: base + m[3]}, nil
	}
	return Span{}, fmt.Errorf("%w: section %q", apperr.ErrRegionNotFound, s.Heading)
}

// Markers locates the text between two literal marker strings.
type Markers struct {
	Start string
	End   string
}

// Locate implements Locator.
func (m Markers) Locate(doc string) (Span, error) {
	i := strings.Index(doc, m.Start)
	if i < 0 {
		return Span{}, fmt.Errorf("%w: marker %q", apperr.ErrRegionNotFound, m.Start)
	}
	start := i + len(m.Start)
	j := strings.Index(doc[start:], m.End)
	if j < 0 {
		return Span{}, fmt.Errorf("%w: marker %q after %q", apperr.ErrRegionNotFound, m.End, m.Start)
	}
	return Span{Start: start, End: start + j}, nil
}

// Entry is one list item to insert, identified by the link target it carries.
type Entry struct {
	Key  string
	HTML string
}

// Replace swaps the region's content for body.
func Replace(doc string, loc Locator, body string) (string, error) {
	span, err := loc.Locate(doc)
	if err != nil {
		return "", err
	}
	return doc[:span.Start] + body + doc[span.End:], nil
}

// Prepend inserts entries, in order, at the top of the region. Entries whose
// key already occurs anywhere in doc are skipped. It returns the updated
// document and the number of entries inserted. The region must exist even
// when nothing needs inserting.
func Prepend(doc string, loc Locator, entries []Entry) (string, int, error) {
	span, err := loc.Locate(doc)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	n := 0
	for _, e := range entries {
		if ContainsHref(doc, e.Key) {
			continue
		}
		b.WriteString(e.HTML)
		n++
	}
	if n == 0 {
		return doc, 0, nil
	}
	return doc[:span.Start] + b.String() + doc[span.Start:], n, nil
}

// ContainsHref reports whether href appears in doc with either forward
// slashes or backslashes as the path separator, raw or attribute-escaped.
func ContainsHref(doc, href string) bool {
	h := strings.ReplaceAll(href, `\`, "/")
	alt := strings.ReplaceAll(strings.ReplaceAll(h, "./", `.\`), "/", `\`)
	for _, s := range []string{h, alt, html.EscapeString(h), html.EscapeString(alt)} {
		if strings.Contains(doc, s) {
			return true
		}
	}
	return false
}
