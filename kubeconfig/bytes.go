package kubeconfig

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
)

// Bytes holds secret or certificate material. Its textual representations
// report only the length, so key material cannot leak into logs or marshalled
// responses.
type Bytes struct {
	data []byte
}

func NewBytes(data []byte) Bytes {
	owned := make([]byte, len(data))
	copy(owned, data)
	return Bytes{data: owned}
}

// bytesFromPath reads the file at path in full.
func bytesFromPath(path string) (Bytes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bytes{}, fmt.Errorf("unable to read file at %s: %w", path, err)
	}
	return Bytes{data: data}, nil
}

// bytesFromBase64 decodes standard base64 text.
func bytesFromBase64(encoded string) (Bytes, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Bytes{}, fmt.Errorf("unable to decode base64 string: %w", err)
	}
	return Bytes{data: data}, nil
}

// BytesFromText takes the string's raw bytes verbatim, with no further
// transformation. Used for plugin-returned certificate data, which arrives
// already decoded.
func BytesFromText(text string) Bytes {
	return Bytes{data: []byte(text)}
}

func (b Bytes) Len() int {
	return len(b.data)
}

func (b Bytes) IsEmpty() bool {
	return len(b.data) == 0
}

// Raw exposes the underlying material for handoff to the TLS layer. Callers
// must not modify the returned slice.
func (b Bytes) Raw() []byte {
	return b.data
}

// Equal compares content explicitly. Kept separate from any implicit equality
// so comparisons of secrets are always deliberate.
func (b Bytes) Equal(other []byte) bool {
	return bytes.Equal(b.data, other)
}

func (b Bytes) String() string {
	return fmt.Sprintf("bytes[%d]", len(b.data))
}

func (b Bytes) GoString() string {
	return b.String()
}

func (b Bytes) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", b.String())), nil
}
