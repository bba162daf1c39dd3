// Package models defines the domain types for manuscript.
package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the only accepted note date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// PlaceholderDate is used for rendered articles that carry no date at all.
const PlaceholderDate = "1970-01-01"

// DefaultHrefPrefix is where the index pages expect rendered articles.
const DefaultHrefPrefix = "./notes/"

// Note is a single note record, parsed from a raw text file or recovered
// from a rendered article.
type Note struct {
	Title      string
	Date       string
	Time       time.Time
	Tag        string
	Paragraphs []string
	Filename   string
	Href       string
}

// Year returns the calendar year the note is dated in.
func (n *Note) Year() int {
	return n.Time.Year()
}

// CleanTitle collapses whitespace runs in a title to single spaces, the form
// a browser displays and the form stored in every note record.
func CleanTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// JoinHref builds the link target for filename under prefix.
func JoinHref(prefix, filename string) string {
	if prefix == "" {
		return filename
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + filename
}

// Vocabulary is the ordered set of tags both pipelines understand.
//
// Known lists every recognised tag in match priority order. Preferred tags
// always get a section in the tag listing, in the given order, even when
// empty. Default is assigned when no known tag applies.
type Vocabulary struct {
	Known     []string `yaml:"known"`
	Preferred []string `yaml:"preferred"`
	Default   string   `yaml:"default"`
}

// DefaultVocabulary returns the built-in tag set.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Known:     []string{"随笔", "废话", "随画", "漫画", "段子", "英语"},
		Preferred: []string{"随笔", "废话", "随画"},
		Default:   "随笔",
	}
}

// Validate validates the vocabulary.
func (v *Vocabulary) Validate() error {
	known := make([]interface{}, len(v.Known))
	for i, t := range v.Known {
		known[i] = t
	}
	return validation.ValidateStruct(v,
		validation.Field(&v.Known, validation.Required, validation.Each(validation.Required)),
		validation.Field(&v.Default, validation.Required, validation.In(known...)),
		validation.Field(&v.Preferred, validation.Each(validation.In(known...))),
	)
}

// IsKnown reports whether tag belongs to the vocabulary.
func (v Vocabulary) IsKnown(tag string) bool {
	for _, t := range v.Known {
		if t == tag {
			return true
		}
	}
	return false
}

// IsPreferred reports whether tag has a fixed section in the tag listing.
func (v Vocabulary) IsPreferred(tag string) bool {
	for _, t := range v.Preferred {
		if t == tag {
			return true
		}
	}
	return false
}

// Find returns the known tag that occurs earliest in text. When two tags
// start at the same offset the one listed first in Known wins.
func (v Vocabulary) Find(text string) (string, bool) {
	best, bestAt := "", -1
	for _, t := range v.Known {
		if t == "" {
			continue
		}
		i := strings.Index(text, t)
		if i < 0 {
			continue
		}
		if bestAt < 0 || i < bestAt {
			best, bestAt = t, i
		}
	}
	return best, bestAt >= 0
}

// Resolve returns the tag found in text, or the default tag.
func (v Vocabulary) Resolve(text string) string {
	if t, ok := v.Find(text); ok {
		return t
	}
	return v.Default
}
