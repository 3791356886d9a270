// Package vault defines the in-memory vault representation (History) and the
// content codec that converts it to and from the encrypted text form stored
// by a datasource.
package vault

import "strings"

// History is the plaintext representation of vault content: an ordered
// sequence of change entries. The datasource layer treats it as opaque.
type History []string

// Push appends a change entry and returns the extended history.
func (h History) Push(entry string) History {
	return append(h, entry)
}

// Serialize converts the history to its canonical text form, one entry per
// line. Deserialize inverts it exactly.
func (h History) Serialize() string {
	return strings.Join(h, "\n")
}

// Deserialize parses the canonical text form back into a History. An empty
// string yields an empty history.
func Deserialize(s string) History {
	if s == "" {
		return History{}
	}
	return History(strings.Split(s, "\n"))
}
