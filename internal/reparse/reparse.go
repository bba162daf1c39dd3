// Package reparse recovers note records from already-rendered articles.
//
// It is the fallback for articles that have no sidecar record or were
// edited by hand after rendering.
package reparse

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/starford/manuscript/internal/models"
	"github.com/starford/manuscript/internal/parser"
)

var (
	dateInTextRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	datePrefixRe   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Options controls how recovered notes are tagged and linked.
type Options struct {
	Vocabulary models.Vocabulary
	HrefPrefix string
}

// Article rebuilds the note record for the article stored as filename.
//
// Title comes from the first <h1>, falling back to the file stem. Date comes
// from the meta paragraph, then the file name prefix, then PlaceholderDate.
// Tag is the first known tag in the meta paragraph, else the default. A date
// that is not a real calendar date yields a *apperr.FormatError.
func Article(filename string, data []byte, opts Options) (*models.Note, error) {
	doc, err := html.Parse(bytes.NewReader(bytes.ToValidUTF8(data, nil)))
	if err != nil {
		return nil, fmt.Errorf("reparse: parse %s: %w", filename, err)
	}

	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	title := stem
	if h1 := findFirst(doc, isHeading); h1 != nil {
		if t := models.CleanTitle(textContent(h1)); t != "" {
			title = t
		}
	}

	meta := ""
	if p := findFirst(doc, isMeta); p != nil {
		meta = textContent(p)
	}

	date := dateInTextRe.FindString(meta)
	if date == "" {
		if m := datePrefixRe.FindStringSubmatch(base); m != nil {
			date = m[1]
		} else {
			date = models.PlaceholderDate
		}
	}

	t, err := parser.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("reparse: %s: %w", base, err)
	}

	return &models.Note{
		Title:    title,
		Date:     date,
		Time:     t,
		Tag:      opts.Vocabulary.Resolve(meta),
		Filename: base,
		Href:     models.JoinHref(opts.HrefPrefix, base),
	}, nil
}

func isHeading(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.H1
}

func isMeta(n *html.Node) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.P {
		return false
	}
	for _, class := range strings.Fields(getAttr(n, "class")) {
		if class == "meta" {
			return true
		}
	}
	return false
}

// findFirst returns the first node in document order matching fn.
func findFirst(n *html.Node, fn func(*html.Node) bool) *html.Node {
	if fn(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, fn); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates the text below n with runs of whitespace
// collapsed and the ends trimmed.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(sb.String(), " "))
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
