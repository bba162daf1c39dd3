package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/manuscript/internal/apperr"
)

var testOpts = Options{HrefPrefix: "./notes/", DefaultTag: "随笔"}

func TestParseRaw_Basic(t *testing.T) {
	n, err := ParseRaw([]byte("My Title\n2024-03-05\nline one\n\nline two\n"), testOpts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"line one", "line two"}, n.Paragraphs); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
	if n.Filename != "2024-03-05-My-Title.html" {
		t.Errorf("filename = %q, want %q", n.Filename, "2024-03-05-My-Title.html")
	}
	if n.Href != "./notes/2024-03-05-My-Title.html" {
		t.Errorf("href = %q", n.Href)
	}
	if n.Title != "My Title" || n.Date != "2024-03-05" || n.Tag != "随笔" {
		t.Errorf("note = %+v", n)
	}
	if n.Year() != 2024 {
		t.Errorf("year = %d, want 2024", n.Year())
	}
}

func TestParseRaw_BOMAndCRLF(t *testing.T) {
	n, err := ParseRaw([]byte("\ufeff  标题  \r\n 2023-12-31 \r\n  正文  \r\n\r\n"), testOpts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Title != "标题" {
		t.Errorf("title = %q", n.Title)
	}
	if diff := cmp.Diff([]string{"正文"}, n.Paragraphs); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
	if n.Filename != "2023-12-31-标题.html" {
		t.Errorf("filename = %q", n.Filename)
	}
}

func TestParseRaw_UnicodeLineBreaks(t *testing.T) {
	n, err := ParseRaw([]byte("Title\u20282024-01-01\u2029one\vtwo\fthree\u0085four\n"), testOpts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Title != "Title" || n.Date != "2024-01-01" {
		t.Errorf("note = %+v", n)
	}
	if diff := cmp.Diff([]string{"one", "two", "three", "four"}, n.Paragraphs); diff != "" {
		t.Errorf("paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRaw_EmptyBody(t *testing.T) {
	n, err := ParseRaw([]byte("Only Title\n2024-01-01"), testOpts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.Paragraphs) != 0 {
		t.Errorf("paragraphs = %v, want none", n.Paragraphs)
	}
}

func TestParseRaw_FormatErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"title only":     "Title\n",
		"bad shape":      "Title\n2024/03/05\nbody",
		"loose digits":   "Title\n2024-3-5\nbody",
		"february 30":    "Title\n2024-02-30\nbody",
		"month 13":       "Title\n2024-13-01\nbody",
		"trailing text":  "Title\n2024-03-05 extra\nbody",
		"date is blank":  "Title\n\n2024-03-05",
		"only bom":       "\ufeff",
		"non-leap feb29": "Title\n2023-02-29",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRaw([]byte(input), testOpts)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperr.IsFormat(err) {
				t.Errorf("error %v is not a FormatError", err)
			}
		})
	}
}

func TestParseDate_Valid(t *testing.T) {
	for _, s := range []string{"2024-02-29", "1970-01-01", "2023-12-31", "0001-01-01"} {
		if _, err := ParseDate(s); err != nil {
			t.Errorf("ParseDate(%q): %v", s, err)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Title", "My-Title"},
		{"  a   b\tc  ", "a-bc"},
		{`a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"...", Untitled},
		{"", Untitled},
		{"<>:?*", Untitled},
		{"..hidden..", "hidden"},
		{"全角　空格", "全角-空格"},
		{"Version 1.0.", "Version-1.0"},
		{"a\vb", "a-b"},
		{"a\u0085b", "a-b"},
		{"a\u2028b", "a-b"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugify_NeverUnsafeOrEmpty(t *testing.T) {
	titles := []string{
		`C:\Users\me`, "a/b/c", "what?", "*", "<script>", "line\nbreak", "tab\there",
		`"quoted"`, "pipe|d", " . ", "\r\n", "正常标题", "混合 <a> / b",
	}
	for _, title := range titles {
		s := Slugify(title)
		if s == "" {
			t.Errorf("Slugify(%q) is empty", title)
		}
		if strings.ContainsAny(s, "<>:\"/\\|?*\n\r\t") {
			t.Errorf("Slugify(%q) = %q contains unsafe characters", title, s)
		}
	}
}
