// Package fixtures provides reusable test data for sources.
package fixtures

import (
	"github.com/Nike1016/selfoss/internal/domain/entity"
)

// SourceOption is a functional option for customizing test sources.
type SourceOption func(*entity.Source)

// NewTestSource creates a valid RSS source with sensible defaults.
//
//	src := NewTestSource()
//	src := NewTestSource(WithID(7), WithSpout("bookmarks", nil))
func NewTestSource(opts ...SourceOption) *entity.Source {
	s := &entity.Source{
		ID:     1,
		Title:  "Go Blog",
		Spout:  "rss",
		Params: entity.NewParams("url", "https://go.dev/blog/feed.atom"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithID sets the ID of the source.
func WithID(id int64) SourceOption {
	return func(s *entity.Source) {
		s.ID = id
	}
}

// WithTitle sets the title of the source.
func WithTitle(title string) SourceOption {
	return func(s *entity.Source) {
		s.Title = title
	}
}

// WithSpout sets the spout name and replaces the params.
func WithSpout(name string, params entity.Params) SourceOption {
	return func(s *entity.Source) {
		s.Spout = name
		s.Params = params
	}
}

// WithError sets the last fetch error.
func WithError(msg string) SourceOption {
	return func(s *entity.Source) {
		s.Error = msg
	}
}

// GitHubSource returns a source for the github spout with all params set.
func GitHubSource(id int64) *entity.Source {
	return NewTestSource(
		WithID(id),
		WithTitle("hello-world commits"),
		WithSpout("github", entity.NewParams("owner", "octocat", "repo", "helloworld", "branch", "main")),
	)
}
