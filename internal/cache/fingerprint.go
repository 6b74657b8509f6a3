package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// formatVersion is bumped whenever the entry layout changes, so old entries
// stop matching instead of failing to decode.
const formatVersion = 1

// Fingerprint identifies one version of a source file.
type Fingerprint struct {
	Version int    `json:"version"`
	Path    string `json:"path"`
	ModTime int64  `json:"mtime_ns"`
}

// FingerprintFor stats path and returns its fingerprint. Unnamed streams
// ("" or "-") and files that cannot be stat'ed have no fingerprint.
func FingerprintFor(path string) (Fingerprint, bool) {
	if path == "" || path == "-" {
		return Fingerprint{}, false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Fingerprint{}, false
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return Fingerprint{}, false
	}
	return Fingerprint{
		Version: formatVersion,
		Path:    filepath.Clean(abs),
		ModTime: info.ModTime().UnixNano(),
	}, true
}

// Valid reports whether the fingerprint names a source.
func (f Fingerprint) Valid() bool {
	return f.Path != ""
}

// Key returns the hex BLAKE2b-256 digest of the JSON-encoded fingerprint.
func (f Fingerprint) Key() string {
	data, err := json.Marshal(f)
	if err != nil {
		// A struct of strings and ints always marshals.
		panic(err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
