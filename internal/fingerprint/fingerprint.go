// Package fingerprint computes content hashes used to detect file changes
// across orchestrator cycles (plan staleness) and invocations (spec
// immutability). Collision resistance is not required — only equality
// matters — so a fast non-cryptographic hash is used.
package fingerprint

import (
	"encoding/hex"
	"errors"
	"io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Absent is the distinguished fingerprint value for a missing or empty file.
const Absent = "absent"

// Of returns the hex-encoded xxhash of path's contents, or Absent if the
// file does not exist.
func Of(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Absent, nil
		}
		return "", err
	}
	return OfBytes(data), nil
}

// OfBytes returns the hex-encoded xxhash of data. An empty slice also
// fingerprints to Absent, matching Of's treatment of a missing file.
func OfBytes(data []byte) string {
	if len(data) == 0 {
		return Absent
	}
	sum := xxhash.Sum64(data)
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(sum >> (56 - 8*i))
	}
	return hex.EncodeToString(buf)
}
