// Package source holds the source use cases: listing sources together with
// the spout that fetches them, validating submitted configuration, and
// creating, editing, deleting and flagging sources.
package source

import "errors"

// ErrSourceNotFound is returned by Get and Update for ids with no stored source.
var ErrSourceNotFound = errors.New("source not found")
