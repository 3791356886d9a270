// Package textsource implements the text-oriented content codec behavior the
// concrete datasources compose: a tri-state cache of the encrypted vault body
// and the encode/decode pipeline between that body and a vault.History.
//
// It holds no storage of its own; backends read and write the bytes.
package textsource

import (
	"github.com/mkalvans/buttervault/internal/credentials"
	"github.com/mkalvans/buttervault/internal/vault"
)

// State describes what the content cache currently holds.
type State int

const (
	// Unloaded means no content is cached; the next Load must hit storage.
	Unloaded State = iota

	// CachedForBypass means content was injected directly, so Load can skip
	// the storage read entirely.
	CachedForBypass

	// CachedFromRead means content was cached by a prior storage read.
	CachedFromRead
)

func (s State) String() string {
	switch s {
	case CachedForBypass:
		return "cached-for-bypass"
	case CachedFromRead:
		return "cached-from-read"
	default:
		return "unloaded"
	}
}

// TextDatasource owns the cached encrypted content and its load state.
// The zero value is ready to use and starts Unloaded.
type TextDatasource struct {
	state   State
	content string
}

func New() *TextDatasource {
	return &TextDatasource{}
}

// State returns the current cache state.
func (t *TextDatasource) State() State {
	return t.state
}

// HasContent reports whether a Load may skip the storage read.
func (t *TextDatasource) HasContent() bool {
	return t.state != Unloaded
}

// Content returns the cached encrypted content. Empty when Unloaded.
func (t *TextDatasource) Content() string {
	return t.content
}

// SetContent injects encrypted content directly, bypassing the backing
// store. Subsequent Load calls decode this content without a storage read.
func (t *TextDatasource) SetContent(content string) {
	t.state = CachedForBypass
	t.content = content
}

// CacheRead stores content freshly read from the backing store.
func (t *TextDatasource) CacheRead(content string) {
	t.state = CachedFromRead
	t.content = content
}

// Clear drops the cache, forcing the next Load to hit storage again.
func (t *TextDatasource) Clear() {
	t.state = Unloaded
	t.content = ""
}

// Decode decrypts and deserializes the cached content under creds. The cache
// is left untouched on failure.
func (t *TextDatasource) Decode(creds *credentials.Credentials) (vault.History, error) {
	return vault.Decode(t.content, creds)
}

// Encode serializes and encrypts history under creds into the text form a
// backend writes to storage.
func (t *TextDatasource) Encode(h vault.History, creds *credentials.Credentials) (string, error) {
	return vault.Encode(h, creds)
}
