package playlist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"media-source/internal/catalog"
)

// ContentType is the media type of a rendered playlist.
const ContentType = "audio/x-mpegurl"

// Entry is a single playable track.
type Entry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Playlist is an ordered list of resolved entries under a document title.
type Playlist struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Resolve resolves every leaf, in order, and applies the URL processor to each result.
// The first failure aborts the playlist.
func Resolve(ctx context.Context, r catalog.Resolver, p catalog.URLProcessor, title string, leaves []*catalog.Node) (*Playlist, error) {
	if p == nil {
		p = catalog.IdentityURL
	}

	pl := &Playlist{
		Title:   title,
		Entries: make([]Entry, 0, len(leaves)),
	}
	for _, leaf := range leaves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		media, err := r.Resolve(ctx, leaf.Identifier)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", leaf.Identifier, err)
		}
		pl.Entries = append(pl.Entries, Entry{
			Title: leaf.Title,
			URL:   p.ProcessURL(media.URL),
		})
	}
	return pl, nil
}

// WriteM3U writes the playlist as an extended M3U document.
// Durations are not known and are always written as 0.
func (p *Playlist) WriteM3U(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("#EXTM3U\n")
	ew.printf("#PLAYLIST:%s\n", singleLine(p.Title))
	for _, e := range p.Entries {
		ew.printf("#EXTINF:0,%s\n", singleLine(e.Title))
		ew.printf("%s\n", singleLine(e.URL))
	}
	return ew.err
}

// M3U returns the rendered document.
func (p *Playlist) M3U() []byte {
	var buf bytes.Buffer
	_ = p.WriteM3U(&buf) // bytes.Buffer writes do not fail
	return buf.Bytes()
}

// Render resolves leaves and returns the finished M3U document.
// Nothing is returned unless every leaf resolved.
func Render(ctx context.Context, r catalog.Resolver, p catalog.URLProcessor, title string, leaves []*catalog.Node) ([]byte, error) {
	pl, err := Resolve(ctx, r, p, title, leaves)
	if err != nil {
		return nil, err
	}
	return pl.M3U(), nil
}

// singleLine keeps titles from breaking the line structure of the document.
func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
