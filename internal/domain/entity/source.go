package entity

import "github.com/Nike1016/selfoss/internal/domain/spout"

// Source represents a configured feed-ingestion origin.
// Spout names the plugin that fetches the source and Params holds the
// plugin-specific configuration submitted by the user.
type Source struct {
	ID     int64
	Title  string
	Spout  string
	Params Params
	// Error holds the message of the last failed fetch. Empty means healthy.
	Error string
}

// SourceView is a Source enriched with the descriptor of its spout.
// Descriptor is nil when the stored spout name no longer resolves in the registry.
type SourceView struct {
	*Source
	Descriptor *spout.Descriptor
}

// HasError reports whether the last fetch of the source failed.
func (s *Source) HasError() bool {
	return s.Error != ""
}
