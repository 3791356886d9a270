// Package common defines shared constants and sentinel errors used across
// the datasource family. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrorNotFound reports that a stat, read or delete targeted a path
	// (or key, or row) that does not exist.
	ErrorNotFound = errors.New("not found")

	// ErrorStorage reports that the backing store failed for any reason
	// other than absence: permissions, device errors, quota.
	ErrorStorage = errors.New("storage fault")

	// ErrorDecode reports that decryption or deserialization failed:
	// wrong key, truncated or corrupt data, format mismatch.
	ErrorDecode = errors.New("decode fault")

	// ErrorEncode reports that serialization or encryption failed before
	// any write was attempted.
	ErrorEncode = errors.New("encode fault")

	// ErrorUnknownDatasource reports a registry lookup for a type name
	// that was never registered.
	ErrorUnknownDatasource = errors.New("unknown datasource type")
)
