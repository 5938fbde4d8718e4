package mediatypes

import "testing"

func TestGetFileType(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want FileType
	}{
		{name: "MP3 audio", ext: ".mp3", want: FileTypeAudio},
		{name: "FLAC audio", ext: ".flac", want: FileTypeAudio},
		{name: "MP4 video", ext: ".mp4", want: FileTypeVideo},
		{name: "MKV video", ext: ".mkv", want: FileTypeVideo},
		{name: "WPL playlist", ext: ".wpl", want: FileTypePlaylist},
		{name: "Image is not indexed", ext: ".jpg", want: FileTypeOther},
		{name: "Unknown extension", ext: ".xyz", want: FileTypeOther},
		{name: "Uppercase needs normalizing", ext: ".MP3", want: FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetFileType(tt.ext); got != tt.want {
				t.Errorf("GetFileType(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestFileTypeForName(t *testing.T) {
	tests := []struct {
		name string
		want FileType
	}{
		{"Song.MP3", FileTypeAudio},
		{"clip.Mp4", FileTypeVideo},
		{"mix.WPL", FileTypePlaylist},
		{"README", FileTypeOther},
	}

	for _, tt := range tests {
		if got := FileTypeForName(tt.name); got != tt.want {
			t.Errorf("FileTypeForName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGetMimeType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".mp3", "audio/mpeg"},
		{".flac", "audio/flac"},
		{".mp4", "video/mp4"},
		{".wpl", "application/vnd.ms-wpl"},
		{".xyz", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := GetMimeType(tt.ext); got != tt.want {
			t.Errorf("GetMimeType(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestPlayableAndBrowsable(t *testing.T) {
	tests := []struct {
		fileType  FileType
		playable  bool
		browsable bool
	}{
		{FileTypeFolder, false, true},
		{FileTypePlaylist, false, true},
		{FileTypeAudio, true, false},
		{FileTypeVideo, true, false},
		{FileTypeOther, false, false},
	}

	for _, tt := range tests {
		if got := IsPlayable(tt.fileType); got != tt.playable {
			t.Errorf("IsPlayable(%v) = %v, want %v", tt.fileType, got, tt.playable)
		}
		if got := IsBrowsable(tt.fileType); got != tt.browsable {
			t.Errorf("IsBrowsable(%v) = %v, want %v", tt.fileType, got, tt.browsable)
		}
	}

	for ext := range MimeTypes {
		if !IsMediaFile(ext) {
			t.Errorf("extension %s has a MIME type but is not a media file", ext)
		}
	}
}
