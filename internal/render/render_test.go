package render

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/manuscript/internal/models"
)

func note(title, date, tag string) *models.Note {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		panic(err)
	}
	file := date + "-" + title + ".html"
	return &models.Note{
		Title:    title,
		Date:     date,
		Time:     t,
		Tag:      tag,
		Filename: file,
		Href:     "./notes/" + file,
	}
}

func titles(notes []*models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestArticle_EscapesText(t *testing.T) {
	n := note("A <b> & c", "2024-03-05", "随笔")
	n.Paragraphs = []string{"x < y & z", "<script>alert(1)</script>"}

	out := Article(n, DefaultOptions())

	for _, want := range []string{
		"<h1>A &lt;b&gt; &amp; c</h1>",
		"<title>A &lt;b&gt; &amp; c</title>",
		`<p class="meta">2024-03-05</p>`,
		"        x &lt; y &amp; z\n",
		"&lt;script&gt;alert(1)&lt;/script&gt;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("raw markup leaked into the article")
	}
	if strings.Count(out, "      <p>\n") != 2 {
		t.Errorf("expected 2 paragraphs, got %d", strings.Count(out, "      <p>\n"))
	}
}

func TestArticle_EmptyBodyPlaceholder(t *testing.T) {
	out := Article(note("Empty", "2024-01-01", "随笔"), DefaultOptions())
	if !strings.Contains(out, "<p>（正文为空）</p>") {
		t.Error("missing empty body placeholder")
	}
}

func TestArticle_Deterministic(t *testing.T) {
	n := note("Same", "2024-01-01", "随笔")
	n.Paragraphs = []string{"one", "two"}
	a := Article(n, DefaultOptions())
	b := Article(n, DefaultOptions())
	if a != b {
		t.Error("rendering the same note twice should be byte-identical")
	}
}

func TestIndexItem(t *testing.T) {
	got := IndexItem(note("T&T", "2024-03-05", "随笔"))
	want := "        <li>\n" +
		"          <a href=\"./notes/2024-03-05-T&amp;T.html\">2024-03-05｜T&amp;T</a>\n" +
		"          <span class=\"tag\">随笔</span>\n" +
		"        </li>\n\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("IndexItem mismatch (-want +got):\n%s", diff)
	}
}

func TestListItem(t *testing.T) {
	got := ListItem(note("Hi", "2024-03-05", "废话"))
	want := `        <li><a href="./notes/2024-03-05-Hi.html">2024-03-05｜Hi</a><span class="tag">废话</span></li>`
	if got != want {
		t.Errorf("ListItem = %q, want %q", got, want)
	}
}

func TestGroupByTag_Ordering(t *testing.T) {
	notes := []*models.Note{
		note("s-old", "2023-01-01", "随笔"),
		note("zz", "2024-02-02", "zzz"),
		note("f", "2024-01-01", "废话"),
		note("s-new", "2024-05-01", "随笔"),
		note("aa", "2022-02-02", "aaa"),
	}

	groups := GroupByTag(notes, models.DefaultVocabulary())

	var ids []string
	for _, g := range groups {
		ids = append(ids, g.ID)
	}
	if diff := cmp.Diff([]string{"随笔", "废话", "随画", "aaa", "zzz"}, ids); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"s-new", "s-old"}, titles(groups[0].Notes)); diff != "" {
		t.Errorf("随笔 order mismatch (-want +got):\n%s", diff)
	}
	if len(groups[2].Notes) != 0 {
		t.Errorf("随画 should be empty, got %v", titles(groups[2].Notes))
	}
}

func TestGroupByTag_DoesNotReorderInput(t *testing.T) {
	notes := []*models.Note{note("a", "2020-01-01", "随笔"), note("b", "2021-01-01", "随笔")}
	GroupByTag(notes, models.DefaultVocabulary())
	if notes[0].Title != "a" {
		t.Error("input slice was reordered")
	}
}

func TestGroupByYear(t *testing.T) {
	notes := []*models.Note{
		note("old", "2023-01-01", "随笔"),
		note("new", "2024-06-01", "随笔"),
		note("newer", "2024-07-01", "废话"),
	}
	groups := GroupByYear(notes)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(groups))
	}
	if groups[0].Label != "2024" || groups[1].Label != "2023" {
		t.Errorf("years = %q, %q", groups[0].Label, groups[1].Label)
	}
	if groups[0].ID != "y2024" {
		t.Errorf("id = %q, want y2024", groups[0].ID)
	}
	if diff := cmp.Diff([]string{"newer", "new"}, titles(groups[0].Notes)); diff != "" {
		t.Errorf("2024 order mismatch (-want +got):\n%s", diff)
	}
}

func TestTagListing_SectionsAndPills(t *testing.T) {
	notes := []*models.Note{
		note("a", "2024-01-01", "随笔"),
		note("b", "2024-02-01", "随笔"),
		note("c", "2024-03-01", "废话"),
		note("d", "2024-04-01", "unknown"),
	}
	out := TagListing(notes, models.DefaultVocabulary(), DefaultOptions())

	order := []string{`id="随笔"`, `id="废话"`, `id="随画"`, `id="unknown"`}
	last := -1
	for _, marker := range order {
		i := strings.Index(out, marker)
		if i < 0 {
			t.Fatalf("missing section %s", marker)
		}
		if i < last {
			t.Errorf("section %s out of order", marker)
		}
		last = i
	}
	if !strings.Contains(out, `<a class="pill" href="#unknown">unknown</a>`) {
		t.Error("missing pill for unknown tag")
	}
	if strings.Index(out, "2024-02-01｜b") > strings.Index(out, "2024-01-01｜a") {
		t.Error("notes inside a section should be newest first")
	}
	if !strings.Contains(out, "<title>查看全部｜绿色恐龙的手稿集</title>") {
		t.Error("missing page title")
	}
}

func TestArchive_YearSections(t *testing.T) {
	out := Archive([]*models.Note{
		note("old", "2023-01-01", "随笔"),
		note("new", "2024-06-01", "随笔"),
	}, DefaultOptions())

	i24 := strings.Index(out, `<section class="card" id="y2024">`)
	i23 := strings.Index(out, `<section class="card" id="y2023">`)
	if i24 < 0 || i23 < 0 {
		t.Fatal("missing year sections")
	}
	if i24 > i23 {
		t.Error("2024 should come before 2023")
	}
	if !strings.Contains(out, `<a class="pill" href="#y2024">2024</a>`) {
		t.Error("missing 2024 pill")
	}
}

func TestArchive_Empty(t *testing.T) {
	out := Archive(nil, DefaultOptions())
	if strings.Contains(out, `id="y`) {
		t.Error("empty archive should have no year sections")
	}
}
