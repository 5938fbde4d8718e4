package playlist

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func wplDocument(title string, srcs ...string) string {
	content := `<?xml version="1.0" encoding="UTF-8"?>
<smil>
	<head>
		<title>` + title + `</title>
	</head>
	<body>
		<seq>`
	for _, src := range srcs {
		content += "\n\t\t\t<media src=\"" + src + "\"/>"
	}
	return content + `
		</seq>
	</body>
</smil>`
}

func TestParseWPLValidFile(t *testing.T) {
	mediaDir := t.TempDir()
	writeFile(t, filepath.Join(mediaDir, "music", "a.mp3"), "a")
	writeFile(t, filepath.Join(mediaDir, "songs", "Album", "b.flac"), "b")
	writeFile(t, filepath.Join(mediaDir, "c.mp4"), "c")

	wplPath := filepath.Join(mediaDir, "playlists", "mix.wpl")
	writeFile(t, wplPath, wplDocument("Road Trip",
		"../music/a.mp3",
		`C:\Users\me\Music\Album\b.flac`,
		`\\server\share\c.mp4`,
		"missing.mp3",
	))

	pl, err := ParseWPL(wplPath, mediaDir)
	if err != nil {
		t.Fatalf("ParseWPL() error = %v", err)
	}
	if pl.Title != "Road Trip" {
		t.Errorf("Title = %q, want Road Trip", pl.Title)
	}

	want := []struct {
		path   string
		exists bool
	}{
		{"music/a.mp3", true},
		{"Album/b.flac", false},
		{"c.mp4", true},
		{"missing.mp3", false},
	}
	if len(pl.Items) != len(want) {
		t.Fatalf("Expected %d items, got %d", len(want), len(pl.Items))
	}
	for i, w := range want {
		item := pl.Items[i]
		if item.Exists != w.exists {
			t.Errorf("item %d (%s): Exists = %v, want %v", i, item.OrigPath, item.Exists, w.exists)
		}
		if w.exists && item.Path != w.path {
			t.Errorf("item %d: Path = %q, want %q", i, item.Path, w.path)
		}
	}
}

func TestParseWPLNestedDrivePath(t *testing.T) {
	mediaDir := t.TempDir()
	writeFile(t, filepath.Join(mediaDir, "Album", "b.flac"), "b")
	wplPath := filepath.Join(mediaDir, "mix.wpl")
	writeFile(t, wplPath, wplDocument("", `D:\Music\Album\b.flac`))

	pl, err := ParseWPL(wplPath, mediaDir)
	if err != nil {
		t.Fatalf("ParseWPL() error = %v", err)
	}
	if pl.Title != "mix" {
		t.Errorf("Expected title to fall back to the file name, got %q", pl.Title)
	}
	if len(pl.Items) != 1 || !pl.Items[0].Exists || pl.Items[0].Path != "Album/b.flac" {
		t.Errorf("Unexpected items: %+v", pl.Items)
	}
}

func TestParseWPLDoesNotEscapeMediaDir(t *testing.T) {
	root := t.TempDir()
	mediaDir := filepath.Join(root, "media")
	writeFile(t, filepath.Join(root, "secret.mp3"), "s")
	wplPath := filepath.Join(mediaDir, "mix.wpl")
	writeFile(t, wplPath, wplDocument("Mix", "../secret.mp3"))

	pl, err := ParseWPL(wplPath, mediaDir)
	if err != nil {
		t.Fatalf("ParseWPL() error = %v", err)
	}
	if len(pl.Items) != 1 || pl.Items[0].Exists {
		t.Errorf("Expected entry outside the media directory to be unresolved: %+v", pl.Items)
	}
}

func TestParseWPLInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	wplPath := filepath.Join(tmpDir, "bad.wpl")
	writeFile(t, wplPath, "not xml")

	if _, err := ParseWPL(wplPath, tmpDir); err == nil {
		t.Error("Expected error when parsing invalid XML")
	}
	if _, err := ParseWPL(filepath.Join(tmpDir, "nonexistent.wpl"), tmpDir); err == nil {
		t.Error("Expected error when parsing nonexistent file")
	}
}

func TestGetRelativePath(t *testing.T) {
	tests := []struct {
		name     string
		fullPath string
		mediaDir string
		want     string
		wantOK   bool
	}{
		{"Path under mediaDir", "/media/videos/test.mp4", "/media", "videos/test.mp4", true},
		{"Path outside mediaDir", "/other/test.mp4", "/media", "", false},
		{"Parent of mediaDir", "/media", "/media/videos", "", false},
		{"Dotdot-prefixed name", "/media/..hidden.mp3", "/media", "..hidden.mp3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := getRelativePath(filepath.FromSlash(tt.fullPath), filepath.FromSlash(tt.mediaDir))
			if ok != tt.wantOK || filepath.ToSlash(got) != tt.want {
				t.Errorf("getRelativePath(%s, %s) = %q, %v; want %q, %v", tt.fullPath, tt.mediaDir, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
