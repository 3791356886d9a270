package vault

import (
	"fmt"

	"github.com/mkalvans/buttervault/internal/common"
	"github.com/mkalvans/buttervault/internal/credentials"
)

// Encode serializes a history and encrypts it under the given handle into
// the text form a datasource writes whole to its backing store.
//
// Failures are encode faults; no I/O has happened yet when they surface.
func Encode(h History, creds *credentials.Credentials) (string, error) {
	content, err := creds.EncryptText(h.Serialize())
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorEncode, err)
	}
	return content, nil
}

// Decode decrypts stored content under the given handle and deserializes it
// back into a History.
//
// Failures are decode faults, distinct from storage faults so callers can
// tell "can't reach the data" from "reached it but it's unusable."
func Decode(content string, creds *credentials.Credentials) (History, error) {
	plain, err := creds.DecryptText(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorDecode, err)
	}
	return Deserialize(plain), nil
}
