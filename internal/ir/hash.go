package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainJournal = "journalized/journal/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// JournalID computes the content-addressed id of a journal.
//
// Author and notes are excluded: the id names "which change to which entity
// at which version", so the same change replayed by another user keeps its id.
func JournalID(ref EntityRef, version int64, details Object) (string, error) {
	obj := Object{
		"entity_type": String(ref.Type),
		"entity_id":   String(ref.ID),
		"version":     Int(version),
		"details":     details,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("JournalID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainJournal, canonical), nil
}

// MustJournalID is like JournalID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustJournalID(ref EntityRef, version int64, details Object) string {
	id, err := JournalID(ref, version, details)
	if err != nil {
		panic(err)
	}
	return id
}
