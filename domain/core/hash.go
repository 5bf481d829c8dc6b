package core

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Hash is a hex-encoded SHA-256 digest used to fingerprint input files
// so a run manifest can pin down exactly which data produced a result.
type Hash string

// String returns the string representation
func (h Hash) String() string { return string(h) }

// HashBytes computes the digest of a byte slice
func HashBytes(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashFile computes the digest of a file's contents
func HashFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return Hash(hex.EncodeToString(h.Sum(nil))), nil
}
