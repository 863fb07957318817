package liveset

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
)

// element parses an XML fragment and returns its root element.
func element(t *testing.T, src string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		t.Fatalf("parse fragment: %v", err)
	}
	if doc.Root() == nil {
		t.Fatal("fragment has no root element")
	}
	return doc.Root()
}

// gzipFixture compresses testdata/<name> into a temporary .als file.
func gzipFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return writeGzip(t, data)
}

func writeGzip(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "set.als")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return path
}

func strPtr(s string) *string { return &s }

func floatEq(got *float64, want float64) bool {
	return got != nil && *got == want
}
