package render

import (
	"html"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/starford/manuscript/internal/models"
)

// Group is one section of an aggregate page.
type Group struct {
	ID    string
	Label string
	Notes []*models.Note
}

// SortByDateDesc orders notes newest first. Notes sharing a date keep their
// relative order.
func SortByDateDesc(notes []*models.Note) {
	slices.SortStableFunc(notes, func(a, b *models.Note) int {
		return b.Time.Compare(a.Time)
	})
}

// GroupByTag partitions notes by tag. Preferred tags come first in their
// given order, even when empty. Any other tag follows, sorted by code point.
func GroupByTag(notes []*models.Note, vocab models.Vocabulary) []Group {
	byTag := make(map[string][]*models.Note)
	for _, n := range notes {
		byTag[n.Tag] = append(byTag[n.Tag], n)
	}

	var others []string
	for tag := range byTag {
		if !vocab.IsPreferred(tag) {
			others = append(others, tag)
		}
	}
	sort.Strings(others)

	order := append(slices.Clone(vocab.Preferred), others...)
	groups := make([]Group, 0, len(order))
	for _, tag := range order {
		g := Group{ID: tag, Label: tag, Notes: slices.Clone(byTag[tag])}
		SortByDateDesc(g.Notes)
		groups = append(groups, g)
	}
	return groups
}

// GroupByYear partitions notes by calendar year, newest year first.
func GroupByYear(notes []*models.Note) []Group {
	byYear := make(map[int][]*models.Note)
	for _, n := range notes {
		byYear[n.Year()] = append(byYear[n.Year()], n)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	groups := make([]Group, 0, len(years))
	for _, y := range years {
		label := strconv.Itoa(y)
		g := Group{ID: "y" + label, Label: label, Notes: slices.Clone(byYear[y])}
		SortByDateDesc(g.Notes)
		groups = append(groups, g)
	}
	return groups
}

// TagListing renders the full listing page grouped by tag.
func TagListing(notes []*models.Note, vocab models.Vocabulary, opts Options) string {
	groups := GroupByTag(notes, vocab)

	var b strings.Builder
	writeHead(&b, "查看全部｜"+opts.SiteTitle, opts)
	b.WriteString("    <header class=\"topbar\">\n")
	b.WriteString("      <a href=\"./index.html\">← 返回首页</a>\n")
	b.WriteString("      <span style=\"opacity:.6\">｜</span>\n")
	b.WriteString("      <a href=\"./archive.html\">按年份</a>\n")
	b.WriteString("    </header>\n\n")
	b.WriteString("    <section class=\"card\">\n")
	b.WriteString("      <div class=\"card-head\">\n")
	b.WriteString("        <h2>查看全部</h2>\n")
	b.WriteString("        <div class=\"card-actions\">\n")
	b.WriteString("          <a class=\"smalllink\" href=\"./archive.html\">按年份 →</a>\n")
	b.WriteString("        </div>\n")
	b.WriteString("      </div>\n\n")
	b.WriteString("      <p class=\"desc\">按标签分区展示；也可以用浏览器搜索（Ctrl+F）找标题。</p>\n\n")
	writePills(&b, groups)
	b.WriteString("    </section>\n\n")
	writeSections(&b, groups)
	writeFoot(&b, opts)
	return b.String()
}

// Archive renders the archive page grouped by year.
func Archive(notes []*models.Note, opts Options) string {
	groups := GroupByYear(notes)

	var b strings.Builder
	writeHead(&b, "按年份｜"+opts.SiteTitle, opts)
	b.WriteString("    <header class=\"topbar\">\n")
	b.WriteString("      <a href=\"./index.html\">← 返回首页</a>\n")
	b.WriteString("      <span style=\"opacity:.6\">｜</span>\n")
	b.WriteString("      <a href=\"./all.html\">查看全部</a>\n")
	b.WriteString("    </header>\n\n")
	b.WriteString("    <section class=\"card\">\n")
	b.WriteString("      <h2>按年份</h2>\n")
	writePills(&b, groups)
	b.WriteString("    </section>\n\n")
	writeSections(&b, groups)
	writeFoot(&b, opts)
	return b.String()
}

func writeHead(b *strings.Builder, title string, opts Options) {
	b.WriteString("<!doctype html>\n")
	b.WriteString(`<html lang="` + html.EscapeString(opts.Lang) + "\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"utf-8\" />\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	b.WriteString("  <title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("  <link rel=\"stylesheet\" href=\"./style.css\" />\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("  <main class=\"page\">\n\n")
}

func writePills(b *strings.Builder, groups []Group) {
	pills := make([]string, len(groups))
	for i, g := range groups {
		pills[i] = `<a class="pill" href="#` + html.EscapeString(g.ID) + `">` + html.EscapeString(g.Label) + "</a>"
	}
	b.WriteString("      <div class=\"quick\">\n")
	b.WriteString("        " + strings.Join(pills, "\n        ") + "\n")
	b.WriteString("      </div>\n")
}

func writeSections(b *strings.Builder, groups []Group) {
	for _, g := range groups {
		b.WriteString(`    <section class="card" id="` + html.EscapeString(g.ID) + "\">\n")
		b.WriteString("      <h2>" + html.EscapeString(g.Label) + "</h2>\n")
		b.WriteString("      <ul class=\"list\">\n")
		if len(g.Notes) > 0 {
			b.WriteString(RecentItems(g.Notes) + "\n")
		}
		b.WriteString("      </ul>\n")
		b.WriteString("    </section>\n\n")
	}
}

func writeFoot(b *strings.Builder, opts Options) {
	b.WriteString("    <footer class=\"footer\">\n")
	b.WriteString("      <p>© <span id=\"year\"></span> " + html.EscapeString(opts.Owner) + "</p>\n")
	b.WriteString("    </footer>\n\n")
	b.WriteString("  </main>\n\n")
	b.WriteString("  <script>\n")
	b.WriteString("    document.getElementById(\"year\").textContent = new Date().getFullYear();\n")
	b.WriteString("  </script>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
}
