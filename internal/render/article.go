// Package render produces the HTML documents of the site: standalone
// articles, list items for the index page, the tag listing and the archive.
package render

import (
	"html"
	"strings"

	"github.com/starford/manuscript/internal/models"
)

// Options holds the site-wide strings that appear in rendered pages.
type Options struct {
	Lang      string
	SiteTitle string
	Owner     string
	BackLabel string
	EmptyBody string
}

// DefaultOptions returns the built-in page strings.
func DefaultOptions() Options {
	return Options{
		Lang:      "zh-CN",
		SiteTitle: "绿色恐龙的手稿集",
		Owner:     "绿色恐龙",
		BackLabel: "← 返回手稿集",
		EmptyBody: "（正文为空）",
	}
}

// Article renders a standalone article page for n. Output depends only on
// its arguments.
func Article(n *models.Note, opts Options) string {
	var paras strings.Builder
	if len(n.Paragraphs) == 0 {
		paras.WriteString("      <p>" + html.EscapeString(opts.EmptyBody) + "</p>\n")
	}
	for _, p := range n.Paragraphs {
		paras.WriteString("      <p>\n        ")
		paras.WriteString(html.EscapeString(p))
		paras.WriteString("\n      </p>\n")
	}

	title := html.EscapeString(n.Title)

	var b strings.Builder
	b.WriteString("<!doctype html>\n")
	b.WriteString(`<html lang="` + html.EscapeString(opts.Lang) + "\">\n")
	b.WriteString("<head>\n")
	b.WriteString("  <meta charset=\"utf-8\" />\n")
	b.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\" />\n")
	b.WriteString("  <title>" + title + "</title>\n")
	b.WriteString("  <link rel=\"stylesheet\" href=\"../style.css\" />\n")
	b.WriteString("</head>\n")
	b.WriteString("<body>\n")
	b.WriteString("  <main class=\"page\">\n\n")
	b.WriteString("    <header class=\"topbar\">\n")
	b.WriteString("      <a href=\"../index.html\">" + html.EscapeString(opts.BackLabel) + "</a>\n")
	b.WriteString("    </header>\n\n")
	b.WriteString("    <article class=\"prose\">\n")
	b.WriteString("      <h1>" + title + "</h1>\n")
	b.WriteString("      <p class=\"meta\">" + html.EscapeString(n.Date) + "</p>\n\n")
	b.WriteString(strings.TrimRight(paras.String(), " \t\n"))
	b.WriteString("\n    </article>\n\n")
	b.WriteString("    <footer class=\"footer\">\n")
	b.WriteString("      <p>© " + html.EscapeString(opts.Owner) + "</p>\n")
	b.WriteString("    </footer>\n\n")
	b.WriteString("  </main>\n")
	b.WriteString("</body>\n")
	b.WriteString("</html>\n")
	return b.String()
}

// IndexItem renders the multi-line list item the ingest pipeline prepends
// to the index page. It ends with a blank line.
func IndexItem(n *models.Note) string {
	return "        <li>\n" +
		`          <a href="` + html.EscapeString(n.Href) + `">` + linkText(n) + "</a>\n" +
		`          <span class="tag">` + html.EscapeString(n.Tag) + "</span>\n" +
		"        </li>\n\n"
}

// ListItem renders the single-line list item used by the rebuilt pages.
func ListItem(n *models.Note) string {
	return `        <li><a href="` + html.EscapeString(n.Href) + `">` + linkText(n) +
		`</a><span class="tag">` + html.EscapeString(n.Tag) + "</span></li>"
}

// RecentItems renders notes as newline-separated list items.
func RecentItems(notes []*models.Note) string {
	items := make([]string, len(notes))
	for i, n := range notes {
		items[i] = ListItem(n)
	}
	return strings.Join(items, "\n")
}

func linkText(n *models.Note) string {
	return html.EscapeString(n.Date) + "｜" + html.EscapeString(n.Title)
}
