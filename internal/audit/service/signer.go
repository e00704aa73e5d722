package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/configvault/internal/audit/domain"
	"github.com/allisson/configvault/internal/errors"
)

type entrySigner struct{}

// NewEntrySigner creates an HMAC-based audit entry signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation.
func NewEntrySigner() EntrySigner {
	return &entrySigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// signing secret. Info parameter is versioned for future algorithm changes.
func (s *entrySigner) deriveSigningKey(secret []byte) ([]byte, error) {
	info := []byte("audit-entry-signing-v1")
	hkdfReader := hkdf.New(sha256.New, secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdfReader, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalize converts an entry to its canonical byte representation for
// signing. Variable-length fields are length-prefixed to prevent ambiguity.
// The signature field itself is excluded.
func (s *entrySigner) canonicalize(entry *auditDomain.AuditEntry) ([]byte, error) {
	buf := make([]byte, 0, 1024)

	buf = append(buf, entry.ID[:]...)

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(entry.Timestamp.UnixNano()))
	buf = append(buf, timeBytes...)

	buf = appendLengthPrefixed(buf, []byte(entry.Operation))
	buf = appendLengthPrefixed(buf, []byte(entry.Path))
	buf = appendLengthPrefixed(buf, []byte(entry.UserID))

	if entry.Success {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	buf = appendLengthPrefixed(buf, []byte(entry.ErrorMessage))
	buf = appendLengthPrefixed(buf, []byte(entry.PreviousValueHash))
	buf = appendLengthPrefixed(buf, []byte(entry.NewValueHash))
	buf = append(buf, byte(entry.RiskLevel))

	if entry.Metadata != nil {
		metadataBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, errors.Wrap(errors.ErrSerialization, "marshal audit metadata")
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by
// data. Panics if data length exceeds uint32 max to prevent overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates the HMAC-SHA256 signature for an entry.
func (s *entrySigner) Sign(secret []byte, entry *auditDomain.AuditEntry) ([]byte, error) {
	signingKey, err := s.deriveSigningKey(secret)
	if err != nil {
		return nil, errors.Wrap(err, "derive audit signing key")
	}
	defer zero(signingKey)

	canonical, err := s.canonicalize(entry)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify checks the entry's signature. Returns an ErrIntegrityViolation
// wrapped error when the signature does not match.
func (s *entrySigner) Verify(secret []byte, entry *auditDomain.AuditEntry) error {
	expected, err := s.Sign(secret, entry)
	if err != nil {
		return err
	}

	if !hmac.Equal(entry.Signature, expected) {
		return errors.Wrap(errors.ErrIntegrityViolation, "audit entry signature mismatch")
	}
	return nil
}

// zero overwrites key material so it does not linger in memory.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
