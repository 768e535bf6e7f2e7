package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identities. The version suffix
// allows the algorithm to change later.
const (
	DomainRender   = "closet/render/v1"
	DomainDocument = "closet/document/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RenderID computes the identity of one logged render. The same session,
// document, outputs and sequence number always produce the same id.
func RenderID(session, documentHash string, outputs []string, seq int64) (string, error) {
	obj := IRObject{
		"session":  IRString(session),
		"document": IRString(documentHash),
		"seq":      IRInt(seq),
	}
	arr, err := FromAny(outputs)
	if err != nil {
		return "", err
	}
	obj["outputs"] = arr

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RenderID: %w", err)
	}
	return hashWithDomain(DomainRender, canonical), nil
}

// DocumentHash computes the identity of a document from its canonical form.
func DocumentHash(doc any) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("DocumentHash: %w", err)
	}
	return hashWithDomain(DomainDocument, canonical), nil
}
