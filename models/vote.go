// File: models/vote.go
package models

// VoteRecord is a single anonymized, encrypted vote as stored in a block.
// Field order is part of the canonical block encoding.
type VoteRecord struct {
	Envelope       EncryptedEnvelope `json:"envelope"`
	VoterHandle    string            `json:"voter_handle"`
	SubmissionTime float64           `json:"submission_time"`
}

// EncryptedEnvelope is the self-contained output of envelope encryption.
// Only the tally authority's private key can open it. Byte fields serialize
// as base64 on the wire.
type EncryptedEnvelope struct {
	Ciphertext         []byte `json:"ct"`
	Nonce              []byte `json:"n"`
	EphemeralPublicKey []byte `json:"eph_pub"`
}

// VotePayload is the plaintext carried inside an envelope.
type VotePayload struct {
	Candidate string `json:"candidate"`
	Timestamp string `json:"timestamp,omitempty"`
}
