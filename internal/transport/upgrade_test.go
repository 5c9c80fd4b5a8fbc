package transport_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/transport"
	"github.com/Dannysek/SimpleServer/internal/transport/refcrypto"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// fakeUpstreamKey stands in for the real Minecraft server's own RSA
// keypair, which this proxy never holds the private half of.
func fakeUpstreamKey(t *testing.T) (*rsa.PrivateKey, []byte) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("rsa.GenerateKey: %v", err)
	}
	return priv, x509.MarshalPKCS1PublicKey(&priv.PublicKey)
}

func encryptionRequestBody(t *testing.T, serverID string, pubKey, token []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	w.WriteUTF16(wire.NewUTF16String(serverID))
	w.WriteI16(int16(len(pubKey)))
	w.WriteSpan(pubKey)
	w.WriteI16(int16(len(token)))
	w.WriteSpan(token)
	w.Flush()
	return buf.Bytes()
}

// TestEncryptionUpgradeFullHandshake drives both rows of spec.md §4.4 in
// sequence — the 0xFD request reflected to the client, then the 0xFC
// response verified and forwarded — and asserts the Session ends up in the
// encrypted state with both legs sharing the same negotiated secret
// (spec.md §8 property 11).
func TestEncryptionUpgradeFullHandshake(t *testing.T) {
	upstreamPriv, upstreamPub := fakeUpstreamKey(t)
	token := []byte("challenge-token!")

	sess := session.New("127.0.0.1")
	serverCrypt, clientCrypt, err := refcrypto.NewPair()
	if err != nil {
		t.Fatalf("refcrypto.NewPair: %v", err)
	}
	sess.ServerCrypt = serverCrypt
	sess.ClientCrypt = clientCrypt

	// Step 1: the real server's 0xFD arrives on the server→client tunnel.
	reqBody := encryptionRequestBody(t, "some-server-id", upstreamPub, token)
	reqR := wire.NewReader(bytes.NewReader(reqBody))
	var toClient bytes.Buffer
	reqW := wire.NewWriter(&toClient)
	if err := transport.HandleEncryptionRequest(0xFD, reqR, reqW, sess, nil); err != nil {
		t.Fatalf("HandleEncryptionRequest: %v", err)
	}
	if sess.State() != session.StateKeyExchange {
		t.Fatalf("expected StateKeyExchange, got %v", sess.State())
	}

	// Decode what was handed to the client: it must NOT be the upstream's
	// own key (this side holds no private key matching it).
	clientR := wire.NewReader(bytes.NewReader(toClient.Bytes()[1:]))
	if _, err := clientR.ReadUTF16(); err != nil {
		t.Fatalf("ReadUTF16 serverID: %v", err)
	}
	pubLen, _ := clientR.ReadI16()
	handedPub, _ := clientR.ReadSpan(int(pubLen))
	if bytes.Equal(handedPub, upstreamPub) {
		t.Fatal("client was handed the real server's own public key, which this side cannot decrypt with")
	}

	// Step 2: the real client encrypts a shared key and the token under the
	// key it was just handed (handedPub == sess.ClientCrypt.PublicKey()).
	clientFacingPub, err := x509.ParsePKCS1PublicKey(handedPub)
	if err != nil {
		t.Fatalf("ParsePKCS1PublicKey: %v", err)
	}
	sharedKey := []byte("0123456789abcdef")
	encShared, err := rsa.EncryptPKCS1v15(rand.Reader, clientFacingPub, sharedKey)
	if err != nil {
		t.Fatalf("EncryptPKCS1v15 shared key: %v", err)
	}
	encToken, err := rsa.EncryptPKCS1v15(rand.Reader, clientFacingPub, token)
	if err != nil {
		t.Fatalf("EncryptPKCS1v15 token: %v", err)
	}

	var respBody bytes.Buffer
	respW := wire.NewWriter(&respBody)
	respW.WriteI16(int16(len(encShared)))
	respW.WriteSpan(encShared)
	respW.WriteI16(int16(len(encToken)))
	respW.WriteSpan(encToken)
	respW.Flush()

	respR := wire.NewReader(bytes.NewReader(respBody.Bytes()))
	var toServer, toClientAgain bytes.Buffer
	toServerW := wire.NewWriter(&toServer)
	peerR := wire.NewReader(bytes.NewReader(nil))
	peerW := wire.NewWriter(&toClientAgain)

	if err := transport.HandleEncryptionResponse(0xFC, respR, toServerW, peerR, peerW, sess, nil); err != nil {
		t.Fatalf("HandleEncryptionResponse: %v", err)
	}
	if sess.State() != session.StateEncrypted {
		t.Fatalf("expected StateEncrypted, got %v", sess.State())
	}

	// What this side forwarded to the real server must decrypt, under the
	// real server's own private key, back to the same shared key.
	outR := wire.NewReader(bytes.NewReader(toServer.Bytes()[1:]))
	outSharedLen, _ := outR.ReadI16()
	outShared, _ := outR.ReadSpan(int(outSharedLen))
	gotShared, err := rsa.DecryptPKCS1v15(rand.Reader, upstreamPriv, outShared)
	if err != nil {
		t.Fatalf("upstream decrypting forwarded shared key: %v", err)
	}
	if !bytes.Equal(gotShared, sharedKey) {
		t.Fatalf("got shared key %x, want %x", gotShared, sharedKey)
	}
}

// TestEncryptionResponseRejectsBadChallenge implements spec.md §4.4's
// failure branch: a challenge response that doesn't decrypt back to the
// stored token kicks the Session with "Invalid client response".
func TestEncryptionResponseRejectsBadChallenge(t *testing.T) {
	sess := session.New("127.0.0.1")
	serverCrypt, clientCrypt, err := refcrypto.NewPair()
	if err != nil {
		t.Fatalf("refcrypto.NewPair: %v", err)
	}
	sess.ServerCrypt = serverCrypt
	sess.ClientCrypt = clientCrypt
	clientCrypt.SetChallengeToken([]byte("expected-token"))

	clientPub, err := x509.ParsePKCS1PublicKey(clientCrypt.PublicKey())
	if err != nil {
		t.Fatalf("ParsePKCS1PublicKey: %v", err)
	}
	badToken, err := rsa.EncryptPKCS1v15(rand.Reader, clientPub, []byte("wrong-token"))
	if err != nil {
		t.Fatalf("EncryptPKCS1v15: %v", err)
	}
	sharedKey, err := rsa.EncryptPKCS1v15(rand.Reader, clientPub, []byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("EncryptPKCS1v15: %v", err)
	}

	var body bytes.Buffer
	w := wire.NewWriter(&body)
	w.WriteI16(int16(len(sharedKey)))
	w.WriteSpan(sharedKey)
	w.WriteI16(int16(len(badToken)))
	w.WriteSpan(badToken)
	w.Flush()

	r := wire.NewReader(bytes.NewReader(body.Bytes()))
	var outBuf, peerOutBuf bytes.Buffer
	outW := wire.NewWriter(&outBuf)
	peerR := wire.NewReader(bytes.NewReader(nil))
	peerW := wire.NewWriter(&peerOutBuf)

	err = transport.HandleEncryptionResponse(0xFC, r, outW, peerR, peerW, sess, nil)
	if err != transport.ErrInvalidClientResponse {
		t.Fatalf("expected ErrInvalidClientResponse, got %v", err)
	}
	if !sess.Kicked() {
		t.Fatal("expected the session to be kicked")
	}
	if sess.KickReason() != "Invalid client response" {
		t.Fatalf("unexpected kick reason: %q", sess.KickReason())
	}
}
