// Package refcrypto is an optional reference session.EncryptionContext
// implementation built on crypto/rsa and crypto/aes, the two primitives
// spec.md §1 names when it scopes the real RSA/AES design out of the core
// and behind an external interface. Nothing in internal/transport or
// internal/tunnel imports this package; a deployment wires it in at
// construction time the way cmd/minewatch does, or supplies its own.
//
// One Session needs two linked Contexts — one facing the real client, one
// facing the real server — sharing a single negotiated symmetric key once
// it arrives from either leg. NewPair builds that pair.
package refcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/subtle"
	"crypto/x509"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// rsaKeyBits is small by real-world standards; the legacy handshake this
// upgrades was never designed for a modern key size and the pack's own
// wire format (a varint-free, i16-length RSA blob) assumes something in
// this range.
const rsaKeyBits = 1024

var errNoPeerKey = errors.New("refcrypto: no peer public key installed yet")

// pairState is the negotiated secret shared by a Session's two Contexts.
// Whichever leg's SetEncryptedSharedKey fires first (spec.md §4.4: the
// client's response is what carries it) populates this for both.
type pairState struct {
	sharedKey []byte
}

// Context is a reference session.EncryptionContext backed by its own RSA
// keypair, plus whatever peer key and challenge token it has learned
// (spec.md §4.4, §6).
type Context struct {
	priv    *rsa.PrivateKey
	peerPub *rsa.PublicKey
	token   []byte
	pair    *pairState
}

// NewPair builds the linked (server-facing, client-facing) Context pair for
// one Session, each with its own freshly generated RSA keypair.
func NewPair() (serverSide *Context, clientSide *Context, err error) {
	sp, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, nil, err
	}
	cp, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, nil, err
	}
	pair := &pairState{}
	return &Context{priv: sp, pair: pair}, &Context{priv: cp, pair: pair}, nil
}

// SetPublicKey records the peer's RSA public key, PKCS#1-DER encoded as it
// arrives on the wire (spec.md §3, §4.2 0xFD row).
func (c *Context) SetPublicKey(b []byte) {
	if pub, err := x509.ParsePKCS1PublicKey(b); err == nil {
		c.peerPub = pub
	}
}

// PublicKey returns this Context's own public key, PKCS#1-DER encoded, for
// presenting to whichever side this Context faces.
func (c *Context) PublicKey() []byte {
	return x509.MarshalPKCS1PublicKey(&c.priv.PublicKey)
}

func (c *Context) SetChallengeToken(b []byte) {
	c.token = append([]byte(nil), b...)
}

// CheckChallengeToken decrypts b with this Context's own private key and
// reports whether it matches the token previously stored by
// SetChallengeToken (spec.md §4.4: "verify the client's challenge response
// against the client context").
func (c *Context) CheckChallengeToken(b []byte) bool {
	plain, err := rsa.DecryptPKCS1v15(rand.Reader, c.priv, b)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(plain, c.token) == 1
}

// EncryptChallengeToken re-encrypts the stored token under the peer's
// public key, for proving this side's identity back to that peer (spec.md
// §4.4: "a freshly encrypted server challenge response").
func (c *Context) EncryptChallengeToken() ([]byte, error) {
	if c.peerPub == nil {
		return nil, errNoPeerKey
	}
	return rsa.EncryptPKCS1v15(rand.Reader, c.peerPub, c.token)
}

// SetEncryptedSharedKey decrypts b with this Context's own private key and
// installs the recovered symmetric key for both Contexts in the pair
// (spec.md §4.4: the shared secret, once known by either leg, backs both).
func (c *Context) SetEncryptedSharedKey(b []byte) {
	plain, err := rsa.DecryptPKCS1v15(rand.Reader, c.priv, b)
	if err == nil {
		c.pair.sharedKey = plain
	}
}

// EncryptedSharedKey re-encrypts the pair's negotiated symmetric key under
// this Context's peer public key, for forwarding it on to that peer.
func (c *Context) EncryptedSharedKey() []byte {
	if c.peerPub == nil || c.pair.sharedKey == nil {
		return nil
	}
	ct, err := rsa.EncryptPKCS1v15(rand.Reader, c.peerPub, c.pair.sharedKey)
	if err != nil {
		return nil
	}
	return ct
}

// streamMaterial derives a fresh AES-256 key and 16-byte IV from the pair's
// shared secret via HKDF-SHA256 (grounded on ericlagergren-dr's use of
// golang.org/x/crypto/hkdf to turn a raw shared secret into a symmetric
// key). label separates the two directions; a Context's own public key is
// folded into the HKDF info too, so the server-facing and client-facing
// Contexts of one pair — which share the same sharedKey — never derive the
// same keystream for their respective legs. Without that discriminant both
// Contexts would decrypt/encrypt two genuinely different streams (the real
// client's traffic and the real server's traffic) under identical AES-CTR
// key+IV, a two-time-pad break.
func (c *Context) streamMaterial(label string) (key, iv []byte, err error) {
	if c.pair.sharedKey == nil {
		return nil, nil, errors.New("refcrypto: shared key not installed yet")
	}
	info := append([]byte(label), x509.MarshalPKCS1PublicKey(&c.priv.PublicKey)...)
	h := hkdf.New(sha256.New, c.pair.sharedKey, nil, info)
	buf := make([]byte, 32+16)
	if _, err := io.ReadFull(h, buf); err != nil {
		return nil, nil, err
	}
	return buf[:32], buf[32:], nil
}

// EncryptedInputStream wraps raw in an AES-CTR decrypting reader keyed off
// the pair's negotiated secret (spec.md §4.4).
func (c *Context) EncryptedInputStream(raw io.Reader) (io.Reader, error) {
	key, iv, err := c.streamMaterial("minewatch-input")
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &cipher.StreamReader{S: cipher.NewCTR(block, iv), R: raw}, nil
}

// EncryptedOutputStream wraps raw in an AES-CTR encrypting writer keyed off
// the pair's negotiated secret. It uses a distinct HKDF label from
// EncryptedInputStream so traffic this Context reads and traffic it writes
// never share a keystream.
func (c *Context) EncryptedOutputStream(raw io.Writer) (io.Writer, error) {
	key, iv, err := c.streamMaterial("minewatch-output")
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &cipher.StreamWriter{S: cipher.NewCTR(block, iv), W: raw}, nil
}
