package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainOperation prefixes operation hashes.
// Version suffix enables future algorithm migration.
const DomainOperation = "linalg/operation/v1"

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

// OperationHash computes the content address of op.
// Verification is a pure function of what is hashed here, so the hash is a
// valid key for caching verification verdicts.
func OperationHash(op *Operation) (string, error) {
	canonical, err := MarshalCanonical(op)
	if err != nil {
		return "", fmt.Errorf("OperationHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOperation, canonical), nil
}

// MustOperationHash is like OperationHash but panics on error.
// Use only in tests or when the op is known to be well formed.
func MustOperationHash(op *Operation) string {
	h, err := OperationHash(op)
	if err != nil {
		panic(err)
	}
	return h
}
