// Package mediasource exposes the media library as a browsable catalog.
//
// Every item is addressed by an identifier of the form
//
//	media-source://<domain>/<path>
//
// where domain selects a registered Source and path is interpreted by that
// source. The bare identifier "media-source://" browses a root listing every
// registered source.
//
// The Registry implements catalog.Browser and catalog.Resolver and can be
// handed directly to playlist.NewBuilder.
package mediasource
