package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// GenerateUniqueHash returns a random hex identifier for component metadata.
func GenerateUniqueHash() string {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		panic("random number generator failed")
	}

	hashInput := append([]byte(fmt.Sprintf("%d", time.Now().UnixNano())), randomBytes...)
	hash := sha256.Sum256(hashInput)
	return hex.EncodeToString(hash[:])
}

// DecodeJSON decodes one JSON value from r into dest.
func DecodeJSON(r io.Reader, dest interface{}) error {
	return json.NewDecoder(r).Decode(dest)
}

// DecodeJSONStrict decodes exactly one JSON value from r into dest and rejects unknown
// fields and trailing data.
func DecodeJSONStrict(r io.Reader, dest interface{}) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	var extra json.RawMessage
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
