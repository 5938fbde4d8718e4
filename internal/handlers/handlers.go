package handlers

import (
	"media-source/internal/catalog"
	"media-source/internal/database"
	"media-source/internal/indexer"
	"media-source/internal/mediaurl"
	"media-source/internal/playlist"
	"media-source/internal/startup"
)

type Handlers struct {
	db       *database.Database
	indexer  *indexer.Indexer
	catalog  playlist.Source
	builder  *playlist.Builder
	signer   *mediaurl.Processor
	mediaDir string
}

// New wires the handlers. signer may be nil, in which case playlist URLs are
// left unsigned and only session cookies grant access to media files.
func New(db *database.Database, idx *indexer.Indexer, source playlist.Source, signer *mediaurl.Processor, config *startup.Config) *Handlers {
	var processor catalog.URLProcessor
	if signer != nil {
		processor = signer
	}

	return &Handlers{
		db:       db,
		indexer:  idx,
		catalog:  source,
		builder:  playlist.NewBuilder(source, processor, config.MaxCatalogDepth),
		signer:   signer,
		mediaDir: config.MediaDir,
	}
}
