// Package mediatypes classifies library files by extension.
//
// Audio and video files are playable leaves. WPL playlist files are browsable
// containers whose children are the library files they reference. Everything
// else, images included, is ignored by the indexer.
//
// Extensions are matched lowercase with the leading dot (".mp3").
package mediatypes
