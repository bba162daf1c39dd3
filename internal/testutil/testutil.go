// Package testutil provides shared test helpers for setting up site directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/manuscript/internal/storage"
)

// IndexHTML is a minimal index page carrying both the recent-updates section
// and the generated-list markers.
const IndexHTML = `<!doctype html>
<html lang="zh-CN">
<body>
  <main class="page">
    <section class="card">
      <h2>关于</h2>
      <ul class="list">
        <li>about</li>
      </ul>
    </section>

    <section class="card">
      <h2>最近更新</h2>
      <ul class="list">
        <!-- AUTOGEN_RECENT_START -->
        <!-- AUTOGEN_RECENT_END -->
      </ul>
    </section>
  </main>
</body>
</html>
`

// TestSite creates a temporary site directory seeded with IndexHTML.
func TestSite(t *testing.T) (string, *storage.FS) {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, "index.html", IndexHTML)
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// ReadFile returns the content of root/rel.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
