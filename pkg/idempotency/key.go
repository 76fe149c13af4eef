// Package idempotency binds client supplied Idempotency-Key headers to the
// request they first arrived with.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	MinKeyLength = 16
	MaxKeyLength = 128
	KeyPrefix    = "idempotency"
)

var (
	ErrKeyTooShort = errors.New("idempotency key must be at least 16 characters")
	ErrKeyTooLong  = errors.New("idempotency key must not exceed 128 characters")
	ErrKeyInvalid  = errors.New("idempotency key contains invalid characters")
	ErrKeyReused   = errors.New("idempotency key was already used with a different request body")

	validKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)
)

// Request is a keyed write. Two requests with the same CacheKey are the same
// logical operation; Fingerprint tells a replay from a conflicting reuse.
type Request struct {
	Key         string
	Method      string
	Path        string
	Fingerprint string
}

// NewRequest validates key and fingerprints body.
func NewRequest(method, path, key string, body []byte) (Request, error) {
	if err := Validate(key); err != nil {
		return Request{}, err
	}

	return Request{
		Key:         key,
		Method:      strings.ToUpper(method),
		Path:        path,
		Fingerprint: Fingerprint(body),
	}, nil
}

// CacheKey is the storage key of the response recorded for r.
func (r Request) CacheKey() string {
	hash := sha256.Sum256([]byte(r.Method + ":" + r.Path + ":" + r.Key))

	return KeyPrefix + ":" + hex.EncodeToString(hash[:])
}

// Conflicts reports whether a response recorded under the same key belongs to
// a different payload. Records without a fingerprint never conflict.
func (r Request) Conflicts(recorded string) bool {
	return recorded != "" && recorded != r.Fingerprint
}

func Validate(key string) error {
	switch {
	case len(key) < MinKeyLength:
		return ErrKeyTooShort
	case len(key) > MaxKeyLength:
		return ErrKeyTooLong
	case !validKeyPattern.MatchString(key):
		return ErrKeyInvalid
	}

	return nil
}

func Fingerprint(body []byte) string {
	return strconv.FormatUint(xxhash.Sum64(body), 16)
}
