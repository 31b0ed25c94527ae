package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// slugLength is the number of characters in a public event slug.
const slugLength = 8

// newSlug returns a short random identifier for shareable invite links.
func newSlug() (string, error) {
	b := make([]byte, slugLength/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate slug: %w", err)
	}
	return hex.EncodeToString(b), nil
}
