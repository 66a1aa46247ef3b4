package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
)

// Domain prefixes for structural keys.
// Version suffix enables future algorithm migration.
const (
	DomainExpression = "sparqb/expression/v1"
	DomainStatement  = "sparqb/statement/v1"
	DomainQuery      = "sparqb/query/v1"
)

// Key is the structural identity of a node: the hex SHA-256 of its canonical
// key document. Two nodes with equal keys are structurally equal.
type Key string

// String implements fmt.Stringer.
func (k Key) String() string { return string(k) }

// Short returns the first 12 hex characters, enough to tell keys apart in
// human-facing output.
func (k Key) Short() string {
	if len(k) <= 12 {
		return string(k)
	}
	return string(k[:12])
}

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// NewKey computes the key of a key document under the given domain.
// Returns error if doc cannot be canonically marshaled.
func NewKey(domain string, doc IRObject) (Key, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("key %s: %w", domain, err)
	}
	return Key(hashWithDomain(domain, canonical)), nil
}

// MustKey is like NewKey but panics on error.
// Nodes use it because their key documents are built from validated fields
// and contain no nil values.
func MustKey(domain string, doc IRObject) Key {
	k, err := NewKey(domain, doc)
	if err != nil {
		panic(err)
	}
	return k
}

// KeySet returns keys as a sorted IRArray. Sorting turns an ordered list into
// a multiset: permutations of the same keys encode identically while
// duplicates are preserved.
func KeySet(keys []Key) IRArray {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	arr := make(IRArray, len(sorted))
	for i, k := range sorted {
		arr[i] = IRString(k)
	}
	return arr
}

// SortedStrings is KeySet for plain strings.
func SortedStrings(ss []string) IRArray {
	sorted := slices.Clone(ss)
	slices.Sort(sorted)
	return Strings(sorted)
}
