package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// tokenLength is the size of short workflow tokens embedded in component
// custom IDs. Custom IDs have a platform length cap, so these stay compact.
const tokenLength = 12

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "wf-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Token creates a short unprefixed token suitable for embedding in
// interaction custom IDs.
func Token() (string, error) {
	tok, err := gonanoid.New(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return tok, nil
}
