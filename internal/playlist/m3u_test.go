package playlist

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"media-source/internal/catalog"
)

func TestRenderFormat(t *testing.T) {
	fc := newFakeCatalog()
	leaves := []*catalog.Node{
		fc.leaf("a", "Song A", "http://x/a.mp3"),
		fc.leaf("b", "Song B", "http://x/b.mp3"),
	}

	got, err := Render(context.Background(), fc, nil, "My Mix", leaves)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "#EXTM3U\n" +
		"#PLAYLIST:My Mix\n" +
		"#EXTINF:0,Song A\n" +
		"http://x/a.mp3\n" +
		"#EXTINF:0,Song B\n" +
		"http://x/b.mp3\n"
	if string(got) != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderEmpty(t *testing.T) {
	got, err := Render(context.Background(), newFakeCatalog(), nil, "Nothing", nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(got) != "#EXTM3U\n#PLAYLIST:Nothing\n" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderIdempotent(t *testing.T) {
	fc := newFakeCatalog()
	leaves := []*catalog.Node{
		fc.leaf("a", "Song A", "/api/file/a.mp3"),
		fc.leaf("b", "Song B", "/api/file/b.mp3"),
	}
	process := catalog.URLProcessorFunc(func(u string) string { return "https://example.com" + u })

	first, err := Render(context.Background(), fc, process, "Mix", leaves)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := Render(context.Background(), fc, process, "Mix", leaves)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("Render() not idempotent:\n%s\nvs\n%s", first, second)
	}
	if !strings.Contains(string(first), "https://example.com/api/file/a.mp3\n") {
		t.Errorf("Expected processed URL in output, got %q", first)
	}
}

func TestRenderResolutionFailureAborts(t *testing.T) {
	fc := newFakeCatalog()
	leaves := []*catalog.Node{
		fc.leaf("one", "One", "http://x/1.mp3"),
		fc.leaf("two", "Two", "http://x/2.mp3"),
		fc.leaf("three", "Three", "http://x/3.mp3"),
	}
	fc.failResolve["two"] = true

	got, err := Render(context.Background(), fc, nil, "Mix", leaves)
	if !errors.Is(err, catalog.ErrUnresolvable) {
		t.Fatalf("Expected ErrUnresolvable, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected no document, got %q", got)
	}
	if !reflect.DeepEqual(fc.resolved, []string{"one", "two"}) {
		t.Errorf("Expected resolution to stop at the failure, got %v", fc.resolved)
	}
}

func TestRenderKeepsDuplicatesAndOrder(t *testing.T) {
	fc := newFakeCatalog()
	z := fc.leaf("z", "Zed", "http://x/z.mp3")
	a := fc.leaf("a", "Aye", "http://x/a.mp3")

	pl, err := Resolve(context.Background(), fc, nil, "T", []*catalog.Node{z, a, z})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := []Entry{
		{Title: "Zed", URL: "http://x/z.mp3"},
		{Title: "Aye", URL: "http://x/a.mp3"},
		{Title: "Zed", URL: "http://x/z.mp3"},
	}
	if !reflect.DeepEqual(pl.Entries, want) {
		t.Errorf("Entries = %+v, want %+v", pl.Entries, want)
	}
}

func TestWriteM3UNewlinesInTitles(t *testing.T) {
	pl := &Playlist{
		Title:   "Line one\nLine two",
		Entries: []Entry{{Title: "Bad\r\nTitle", URL: "http://x/a.mp3"}},
	}

	got := string(pl.M3U())
	want := "#EXTM3U\n#PLAYLIST:Line one Line two\n#EXTINF:0,Bad Title\nhttp://x/a.mp3\n"
	if got != want {
		t.Errorf("M3U() = %q, want %q", got, want)
	}
}

type failingWriter struct{ n int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.n == 0 {
		return 0, errors.New("disk full")
	}
	f.n--
	return len(p), nil
}

func TestWriteM3UWriterError(t *testing.T) {
	pl := &Playlist{Title: "T", Entries: []Entry{{Title: "A", URL: "u"}}}
	if err := pl.WriteM3U(&failingWriter{n: 2}); err == nil {
		t.Error("Expected write error to be returned")
	}
}
