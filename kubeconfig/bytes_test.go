package kubeconfig

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesFromBase64RoundTrip(t *testing.T) {
	original := []byte("secret certificate material \x00\x01\x02")

	decoded, err := bytesFromBase64(base64.StdEncoding.EncodeToString(original))
	require.NoError(t, err)
	assert.True(t, decoded.Equal(original))
	assert.Equal(t, len(original), decoded.Len())
}

func TestBytesFromBase64Invalid(t *testing.T) {
	_, err := bytesFromBase64("not!!!base64")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode base64 string")
}

func TestBytesFromPathRoundTrip(t *testing.T) {
	original := []byte("PEM-ish contents\n")
	path := filepath.Join(t.TempDir(), "ca.crt")
	require.NoError(t, os.WriteFile(path, original, 0o600))

	read, err := bytesFromPath(path)
	require.NoError(t, err)
	assert.True(t, read.Equal(original))
}

func TestBytesFromPathMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.crt")

	_, err := bytesFromPath(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}

func TestBytesFromTextVerbatim(t *testing.T) {
	material := BytesFromText("-----BEGIN CERTIFICATE-----")
	assert.True(t, material.Equal([]byte("-----BEGIN CERTIFICATE-----")))
}

func TestBytesNeverLeaksContent(t *testing.T) {
	material := NewBytes([]byte("hunter2"))

	assert.Equal(t, "bytes[7]", material.String())
	assert.Equal(t, "bytes[7]", material.GoString())

	marshalled, err := json.Marshal(material)
	require.NoError(t, err)
	assert.Equal(t, `"bytes[7]"`, string(marshalled))
	assert.NotContains(t, string(marshalled), "hunter2")
}

func TestNewBytesCopiesInput(t *testing.T) {
	source := []byte("abc")
	material := NewBytes(source)

	source[0] = 'z'
	assert.True(t, material.Equal([]byte("abc")))
}
