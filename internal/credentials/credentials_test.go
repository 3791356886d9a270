package credentials

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestCredentials() *Credentials {
	return New(Config{Type: "file", Path: "/data/vault.bcup"}, []byte("master"))
}

func TestNew_CopiesPassword(t *testing.T) {
	pw := []byte("master")
	c := New(Config{Type: "file"}, pw)

	pw[0] = 'X'

	sealed, err := c.EncryptBuffer([]byte("payload"))
	require.NoError(t, err)

	opened, err := c.DecryptBuffer(sealed)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), opened)
}

func TestConfig_Resolution(t *testing.T) {
	c := newTestCredentials()

	cfg := c.Config()
	require.Equal(t, "file", cfg.Type)
	require.Equal(t, "/data/vault.bcup", cfg.Path)
	require.NotEmpty(t, c.ID())
}

func TestEncryptDecryptBuffer_RoundTrip(t *testing.T) {
	c := newTestCredentials()
	payload := []byte{0x01, 0x02}

	sealed, err := c.EncryptBuffer(payload)
	require.NoError(t, err)
	require.NotEqual(t, payload, sealed)

	opened, err := c.DecryptBuffer(sealed)
	require.NoError(t, err)
	require.Equal(t, payload, opened)
}

func TestDecryptBuffer_WrongHandle(t *testing.T) {
	a := New(Config{}, []byte("password-a"))
	b := New(Config{}, []byte("password-b"))

	sealed, err := a.EncryptBuffer([]byte("payload"))
	require.NoError(t, err)

	_, err = b.DecryptBuffer(sealed)
	require.Error(t, err)
}

func TestEncryptDecryptText_RoundTrip(t *testing.T) {
	c := newTestCredentials()

	content, err := c.EncryptText("line one\nline two")
	require.NoError(t, err)
	require.Contains(t, content, "bcup1$")

	plain, err := c.DecryptText(content)
	require.NoError(t, err)
	require.Equal(t, "line one\nline two", plain)
}

func TestDecryptText_MalformedEnvelope(t *testing.T) {
	c := newTestCredentials()

	cases := []string{
		"",
		"not an envelope",
		"bcup1$onlyonepart",
		"bcup2$a$b$c",
		"bcup1$!!!$AAAA$AAAA",
	}
	for _, content := range cases {
		_, err := c.DecryptText(content)
		require.ErrorIs(t, err, ErrInvalidEnvelope, "content %q", content)
	}
}

func TestWipe_MakesHandleUnusable(t *testing.T) {
	c := newTestCredentials()

	sealed, err := c.EncryptBuffer([]byte("payload"))
	require.NoError(t, err)

	c.Wipe()

	_, err = c.DecryptBuffer(sealed)
	require.Error(t, err)
}
