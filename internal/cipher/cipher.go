// Package cipher implements the pedagogical XOR stream cipher (C2) and the
// key generation for its one-shot handshake (the handshake exchange itself
// lives in internal/sender and internal/receiver), grounded on the Security class in
// _examples/original_source/utils.py (encrypt/decrypt/generate_key) and
// reshaped into the teacher's value-type-with-methods idiom.
//
// This is NOT a security primitive: spec.md §1 is explicit that the cipher
// offers no security guarantee. It exists because it affects the on-wire
// format (the ENC flag and the handshake datagram).
package cipher

import "math/rand"

// DefaultKey matches utils.py's Security(key=b'Redes2026') default.
const DefaultKey = "Redes2026"

// KeySize is the length of a handshake-negotiated key, in bytes.
const KeySize = 8

// Cipher applies a length-preserving, symmetric XOR transform keyed by an
// arbitrary-length byte key. The zero value is not usable; construct with New.
type Cipher struct {
	key []byte
}

// New returns a Cipher keyed by key. With an empty key, Transform returns
// its input unchanged; the protocol layer always supplies DefaultKey or a
// handshake-negotiated key.
func New(key []byte) Cipher {
	k := make([]byte, len(key))
	copy(k, key)
	return Cipher{key: k}
}

// Transform XORs each byte of data with key[i % len(key)]. Because XOR is
// its own inverse, Transform serves as both Encrypt and Decrypt.
func (c Cipher) Transform(data []byte) []byte {
	if len(data) == 0 || len(c.key) == 0 {
		return data
	}
	out := make([]byte, len(data))
	klen := len(c.key)
	for i, b := range data {
		out[i] = b ^ c.key[i%klen]
	}
	return out
}

// Encrypt is Transform under its data-plane name.
func (c Cipher) Encrypt(plaintext []byte) []byte { return c.Transform(plaintext) }

// Decrypt is Transform under its data-plane name; decrypt(encrypt(p)) == p.
func (c Cipher) Decrypt(ciphertext []byte) []byte { return c.Transform(ciphertext) }

// GenerateKey produces KeySize random bytes suitable for a handshake. Uses
// math/rand rather than crypto/rand: the cipher carries no security
// guarantee (spec.md §1), so a cryptographically strong source buys
// nothing and the teacher/pack never reach for crypto/rand in a non-auth
// context either.
func GenerateKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(rand.Intn(256))
	}
	return key
}
