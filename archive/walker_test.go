package archive

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type zipEntry struct {
	name    string
	content string
}

func makeZip(t *testing.T, entries ...zipEntry) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")

	zf, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zf.Close()

	w := zip.NewWriter(zf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{"styles/site.css", "a { color: red; }"},
		zipEntry{"styles/theme.SCSS", "$x: 1;"},
		zipEntry{"styles/", ""},
		zipEntry{"readme.txt", "readme"},
		zipEntry{"app.less", "b {}"},
	)

	t.Run("by extension", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, WithExt(".css", ".scss"), func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		want := []string{"styles/site.css", "styles/theme.SCSS"}
		if !slices.Equal(visited, want) {
			t.Errorf("visited = %v, want %v", visited, want)
		}
	})

	t.Run("everything", func(t *testing.T) {
		var count int
		err := Walk(zipPath, nil, func(string, *zip.File) error {
			count++
			return nil
		})
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		// directory entry is never visited
		if count != 4 {
			t.Errorf("visited %d files, want 4", count)
		}
	})

	t.Run("error stops walk", func(t *testing.T) {
		stop := errors.New("stop")
		var count int
		err := Walk(zipPath, nil, func(string, *zip.File) error {
			count++
			return stop
		})
		if !errors.Is(err, stop) {
			t.Errorf("Walk() error = %v, want %v", err, stop)
		}
		if count != 1 {
			t.Errorf("visited %d files after error, want 1", count)
		}
	})
}

func TestWalk_NotArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.css")
	if err := os.WriteFile(path, []byte("a {}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Walk(path, nil, func(string, *zip.File) error { return nil }); err == nil {
		t.Error("Walk() expected error for non-zip file")
	}
	if err := Walk(filepath.Join(t.TempDir(), "missing.zip"), nil, func(string, *zip.File) error { return nil }); err == nil {
		t.Error("Walk() expected error for missing file")
	}
}

func TestWalk_UnsafePath(t *testing.T) {
	zipPath := makeZip(t, zipEntry{"../evil.css", "a {}"})

	called := false
	err := Walk(zipPath, WithExt(".css"), func(string, *zip.File) error {
		called = true
		return nil
	})
	if err == nil {
		t.Error("Walk() expected error for path traversal entry")
	}
	if called {
		t.Error("walkFn must not be called for unsafe entry")
	}
}

func TestReadFile(t *testing.T) {
	zipPath := makeZip(t, zipEntry{"site.css", "a { color: red; }"})

	var got string
	err := Walk(zipPath, WithExt(".css"), func(_ string, f *zip.File) error {
		data, err := ReadFile(f)
		got = string(data)
		return err
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if got != "a { color: red; }" {
		t.Errorf("ReadFile() = %q", got)
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"styles/site.css", true},
		{"site.css", true},
		{"a/..b/c.css", true},
		{"/etc/passwd", false},
		{`\windows\x.css`, false},
		{"../x.css", false},
		{"a/../../x.css", false},
		{`a\..\x.css`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWithExt(t *testing.T) {
	m := WithExt(".css", ".PCSS")
	for name, want := range map[string]bool{
		"a.css":      true,
		"a.CSS":      true,
		"b/a.pcss":   true,
		"a.scss":     false,
		"css":        false,
		"a.css.orig": false,
	} {
		if got := m(name); got != want {
			t.Errorf("WithExt()(%q) = %v, want %v", name, got, want)
		}
	}
}
