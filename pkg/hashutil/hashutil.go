// Package hashutil computes content digests. SHA-256 is the contract used
// for CrawledPage.contentHash (§4.5); BLAKE3 is kept for the internal
// PageSignals fingerprint cache, where speed matters more than the choice
// of algorithm is ever observed externally.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

type Algo string

const (
	AlgoSHA256 Algo = "sha256"
	AlgoBLAKE3 Algo = "blake3"
)

func HashBytes(data []byte, algo Algo) (string, error) {
	switch algo {
	case AlgoSHA256:
		return sha256Hex(data), nil
	case AlgoBLAKE3:
		return blake3Hex(data), nil
	default:
		return "", fmt.Errorf("hashutil: unsupported algorithm %q", algo)
	}
}

// SHA256Hex is the contract-level hash used for CrawledPage.contentHash.
func SHA256Hex(data []byte) string {
	return sha256Hex(data)
}

// FastFingerprint is the BLAKE3-backed fingerprint used to key the
// PageSignals cache, so an unchanged re-crawl skips recomputation.
func FastFingerprint(data []byte) string {
	return blake3Hex(data)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func blake3Hex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
