package pkgconfig

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Hash returns the hex SHA-256 of the JSON encoding of the category list.
// Nil and empty collections hash identically.
func Hash(cfg *RuntimeConfig) (string, error) {
	data, err := json.Marshal(cfg.Clone().PackageCategories)
	if err != nil {
		return "", errors.Wrap(err, "encoding package categories")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// MustHash is Hash for values known to encode, such as literals.
func MustHash(cfg *RuntimeConfig) string {
	h, err := Hash(cfg)
	if err != nil {
		panic(err)
	}
	return h
}

// Dirty reports whether the stored hash no longer matches the content.
func Dirty(cfg *RuntimeConfig) (bool, error) {
	h, err := Hash(cfg)
	if err != nil {
		return false, err
	}
	return h != cfg.PackageCategoryHash, nil
}
