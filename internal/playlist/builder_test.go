package playlist

import (
	"context"
	"errors"
	"testing"

	"media-source/internal/catalog"
)

func TestBuilderBuild(t *testing.T) {
	fc := newFakeCatalog()
	album := fc.container("album", "Album", fc.leaf("t1", "Track 1", "/f/t1.mp3"), fc.leaf("t2", "Track 2", "/f/t2.mp3"))
	fc.container("mix", "My Mix", fc.leaf("intro", "Intro", "/f/intro.mp3"), summary(album))

	b := NewBuilder(fc, catalog.URLProcessorFunc(func(u string) string { return "http://host" + u }), 0)
	pl, err := b.Build(context.Background(), "mix")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := "#EXTM3U\n" +
		"#PLAYLIST:My Mix\n" +
		"#EXTINF:0,Intro\n" +
		"http://host/f/intro.mp3\n" +
		"#EXTINF:0,Track 1\n" +
		"http://host/f/t1.mp3\n" +
		"#EXTINF:0,Track 2\n" +
		"http://host/f/t2.mp3\n"
	if got := string(pl.M3U()); got != want {
		t.Errorf("M3U() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuilderLeafRoot(t *testing.T) {
	fc := newFakeCatalog()
	fc.leaf("single", "Single", "http://x/single.mp3")

	pl, err := NewBuilder(fc, nil, 0).Build(context.Background(), "single")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if pl.Title != "Single" || len(pl.Entries) != 1 || pl.Entries[0].URL != "http://x/single.mp3" {
		t.Errorf("Unexpected playlist: %+v", pl)
	}
}

func TestBuilderErrors(t *testing.T) {
	fc := newFakeCatalog()
	fc.container("root", "Root", fc.leaf("ok", "OK", "u"), fc.leaf("bad", "Bad", "u"))
	fc.failResolve["bad"] = true

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "Empty identifier", id: "", wantErr: catalog.ErrInvalidRequest},
		{name: "Blank identifier", id: "   ", wantErr: catalog.ErrInvalidRequest},
		{name: "Unknown root", id: "nope", wantErr: catalog.ErrNotFound},
		{name: "Unresolvable leaf", id: "root", wantErr: catalog.ErrUnresolvable},
	}

	b := NewBuilder(fc, nil, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl, err := b.Build(context.Background(), tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build(%q) error = %v, want %v", tt.id, err, tt.wantErr)
			}
			if pl != nil {
				t.Errorf("Expected no playlist, got %+v", pl)
			}
		})
	}
}
