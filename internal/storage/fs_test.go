package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tempSite(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return s
}

func TestWriteAndRead(t *testing.T) {
	s := tempSite(t)
	content := []byte("<h1>Hello</h1>\n")
	if err := s.Write("index.html", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("index.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempSite(t)
	if err := s.Write("notes/.records/a.yaml", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("notes/.records/a.yaml")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestReadMissingWrapsNotExist(t *testing.T) {
	s := tempSite(t)
	_, err := s.Read("nope.html")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestExists(t *testing.T) {
	s := tempSite(t)
	ok, err := s.Exists("a.html")
	if err != nil || ok {
		t.Fatalf("Exists before write = %v, %v", ok, err)
	}
	_ = s.Write("a.html", []byte("a"))
	ok, err = s.Exists("a.html")
	if err != nil || !ok {
		t.Fatalf("Exists after write = %v, %v", ok, err)
	}
}

func TestList_SortedFilteredNonRecursive(t *testing.T) {
	s := tempSite(t)
	_ = s.Write("raw/b.txt", []byte("b"))
	_ = s.Write("raw/a.txt", []byte("a"))
	_ = s.Write("raw/c.md", []byte("c"))
	_ = s.Write("raw/sub/d.txt", []byte("d"))

	items, err := s.List("raw", ".txt")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{filepath.Join("raw", "a.txt"), filepath.Join("raw", "b.txt")}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestList_MissingDir(t *testing.T) {
	s := tempSite(t)
	if _, err := s.List("notes", ".html"); err == nil {
		t.Error("expected error listing a missing directory")
	}
}

func TestEnsureDir(t *testing.T) {
	s := tempSite(t)
	if err := s.EnsureDir("raw"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := s.EnsureDir("raw"); err != nil {
		t.Fatalf("EnsureDir twice: %v", err)
	}
	items, err := s.List("raw", ".txt")
	if err != nil || len(items) != 0 {
		t.Errorf("List = %v, %v", items, err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempSite(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.html",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if _, err := s.Exists(p); err == nil {
			t.Errorf("expected error for exists on %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempSite(t)
	_ = s.Write("atomic.html", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic.html", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.html")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.root, ".manuscript-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "manuscript-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
