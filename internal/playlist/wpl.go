package playlist

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WPL structure based on Windows Media Player playlist format
type WPL struct {
	XMLName xml.Name `xml:"smil"`
	Head    WPLHead  `xml:"head"`
	Body    WPLBody  `xml:"body"`
}

type WPLHead struct {
	Title string `xml:"title"`
}

type WPLBody struct {
	Seq WPLSeq `xml:"seq"`
}

type WPLSeq struct {
	Media []WPLMedia `xml:"media"`
}

type WPLMedia struct {
	Src string `xml:"src,attr"`
}

// WPLFile is a parsed WPL playlist with its entries matched against the media directory.
type WPLFile struct {
	Title string
	Items []WPLItem
}

// WPLItem is a single playlist entry.
// Path is relative to the media directory and only meaningful when Exists is true.
type WPLItem struct {
	Name     string
	Path     string
	OrigPath string
	Exists   bool
}

// ParseWPL reads the playlist at wplPath and matches its entries against mediaDir.
func ParseWPL(wplPath, mediaDir string) (*WPLFile, error) {
	data, err := os.ReadFile(wplPath)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}

	var wpl WPL
	if err := xml.Unmarshal(data, &wpl); err != nil {
		return nil, fmt.Errorf("parse playlist: %w", err)
	}

	pl := &WPLFile{Title: strings.TrimSpace(wpl.Head.Title)}
	if pl.Title == "" {
		pl.Title = strings.TrimSuffix(filepath.Base(wplPath), filepath.Ext(wplPath))
	}

	wplDir := filepath.Dir(wplPath)
	for _, media := range wpl.Body.Seq.Media {
		if strings.TrimSpace(media.Src) == "" {
			continue
		}
		pl.Items = append(pl.Items, resolveMediaPath(media.Src, wplDir, mediaDir))
	}

	return pl, nil
}

// resolveMediaPath locates a playlist entry inside mediaDir.
func resolveMediaPath(src, wplDir, mediaDir string) WPLItem {
	// Windows separators, drive letters and UNC prefixes all reduce to slash paths
	srcPath := strings.ReplaceAll(src, "\\", "/")
	item := WPLItem{
		Name:     filepath.Base(srcPath),
		Path:     filepath.Base(srcPath),
		OrigPath: src,
	}

	isUNC := strings.HasPrefix(srcPath, "//")
	hasDrive := len(srcPath) >= 2 && srcPath[1] == ':'

	if !isUNC && !hasDrive && !filepath.IsAbs(srcPath) {
		candidate := filepath.Join(wplDir, filepath.FromSlash(srcPath))
		if rel, ok := getRelativePath(candidate, mediaDir); ok && fileExists(candidate) {
			item.Path = filepath.ToSlash(rel)
			item.Exists = true
			return item
		}
	}

	// Progressively drop leading components so that "C:/Music/Album/a.mp3"
	// can match "Album/a.mp3" below the media directory.
	parts := strings.Split(strings.TrimLeft(srcPath, "/"), "/")
	for i := 0; i < len(parts); i++ {
		tail := filepath.Join(parts[i:]...)
		candidate := filepath.Join(mediaDir, tail)
		if _, ok := getRelativePath(candidate, mediaDir); !ok {
			continue
		}
		if fileExists(candidate) {
			item.Path = filepath.ToSlash(tail)
			item.Exists = true
			return item
		}
	}

	return item
}

// getRelativePath returns fullPath relative to mediaDir, refusing paths that escape it.
func getRelativePath(fullPath, mediaDir string) (string, bool) {
	rel, err := filepath.Rel(mediaDir, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
