package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"

	"rmap/internal/domain"
)

// Canonical serializes msg deterministically: object keys sorted ascending,
// no extraneous whitespace, integers rendered exactly. encoding/json already
// sorts map keys recursively and emits compact output, so this is a thin,
// named choke point for the property rather than a custom serializer.
func Canonical(msg map[string]any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEnvelopeFormat, err)
	}
	return b, nil
}

// DecodeCanonical parses plaintext back into a mapping. Numbers come back as
// json.Number so 64-bit nonces survive without float rounding.
func DecodeCanonical(plaintext []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(plaintext))
	dec.UseNumber()
	var msg map[string]any
	if err := dec.Decode(&msg); err != nil {
		return nil, fmt.Errorf("%w: decrypted payload is not a JSON mapping: %v", domain.ErrEnvelopeFormat, err)
	}
	return msg, nil
}
