package models

import (
	"crypto/rand"
	"fmt"
	"io"
	"time"
)

// Crockford base32 alphabet: no I, L, O or U.
const referenceAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

const referenceRandomLen = 8

// NewReference returns a human-shareable reference such as
// VR-20260314-7K2M9QXD.
func NewReference(now time.Time) (string, error) {
	return newReference(now, rand.Reader)
}

func newReference(now time.Time, src io.Reader) (string, error) {
	buf := make([]byte, referenceRandomLen)
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}
	out := make([]byte, referenceRandomLen)
	for i, b := range buf {
		out[i] = referenceAlphabet[int(b)&31]
	}
	return fmt.Sprintf("VR-%s-%s", now.UTC().Format("20060102"), out), nil
}
