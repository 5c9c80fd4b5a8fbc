// Package transport implements the one part of the wire dispatch that
// internal/grammar's Hook shape cannot express: the encryption upgrade
// (spec.md §4.4). A Hook only ever sees one tunnel's Reader and Writer, but
// installing the upgrade touches all four objects of a player's pair — the
// reader and writer facing the client, and the reader and writer facing the
// server — so internal/tunnel calls into this package directly for opcodes
// 0xFD and 0xFC, ahead of grammar.Dispatch, instead of registering them as
// Hooks.
package transport

import (
	"errors"

	"github.com/Dannysek/SimpleServer/internal/collab"
	"github.com/Dannysek/SimpleServer/internal/session"
	"github.com/Dannysek/SimpleServer/internal/wire"
)

// ErrInvalidClientResponse is returned (and the Session already kicked)
// when the encryption response's challenge token fails to verify (spec.md
// §4.4: "on failure, kick with 'Invalid client response'").
var ErrInvalidClientResponse = errors.New("transport: invalid client response")

// ErrAuthenticationFailed is returned (and the Session already kicked) when
// the optional online premium-auth step fails.
var ErrAuthenticationFailed = errors.New("transport: authentication failed")

// HandleEncryptionRequest implements spec.md §4.4's 0xFD row. It always
// arrives on the server→client tunnel: the real server's RSA public key and
// challenge token are stored against the Session's server-facing context,
// and the client is handed this Session's own client-facing keypair in
// their place — a true man-in-the-middle of the RSA leg, not a reflection
// of the server's key, since only a key this side holds the private half
// of lets it later decrypt what the client encrypts with it.
func HandleEncryptionRequest(op byte, r *wire.Reader, w *wire.Writer, sess *session.Session, auth collab.Authenticator) error {
	serverID, err := r.ReadUTF16()
	if err != nil {
		return err
	}
	pubLen, err := r.ReadI16()
	if err != nil {
		return err
	}
	pubKey, err := r.ReadSpan(int(pubLen))
	if err != nil {
		return err
	}
	tokenLen, err := r.ReadI16()
	if err != nil {
		return err
	}
	token, err := r.ReadSpan(int(tokenLen))
	if err != nil {
		return err
	}

	sess.ServerCrypt.SetPublicKey(pubKey)
	sess.ServerCrypt.SetChallengeToken(token)
	sess.ClientCrypt.SetChallengeToken(token)

	outServerID := serverID.String()
	if auth != nil && !auth.UseCustAuth(sess) {
		outServerID = "-"
	}
	clientPub := sess.ClientCrypt.PublicKey()

	sess.SetState(session.StateKeyExchange)

	if _, err := w.WriteU8(op); err != nil {
		return err
	}
	if _, err := w.WriteUTF16(wire.NewUTF16String(outServerID)); err != nil {
		return err
	}
	if _, err := w.WriteI16(int16(len(clientPub))); err != nil {
		return err
	}
	if _, err := w.WriteSpan(clientPub); err != nil {
		return err
	}
	if _, err := w.WriteI16(int16(len(token))); err != nil {
		return err
	}
	_, err = w.WriteSpan(token)
	return err
}

// HandleEncryptionResponse implements spec.md §4.4's 0xFC row. It arrives
// on the client→server tunnel — r/w are that tunnel's reader/writer,
// peerR/peerW are the server→client tunnel's reader/writer of the same
// pair. The real verify/kick decision happens here; on success this
// function re-emits the upgrade to the real server and then installs the
// encrypted streams on all four objects before returning, per spec.md's
// "immediately after writing, replace the tunnel's reader and writer."
func HandleEncryptionResponse(op byte, r *wire.Reader, w *wire.Writer, peerR *wire.Reader, peerW *wire.Writer, sess *session.Session, auth collab.Authenticator) error {
	sharedLen, err := r.ReadI16()
	if err != nil {
		return err
	}
	sharedKey, err := r.ReadSpan(int(sharedLen))
	if err != nil {
		return err
	}
	respLen, err := r.ReadI16()
	if err != nil {
		return err
	}
	response, err := r.ReadSpan(int(respLen))
	if err != nil {
		return err
	}

	if !sess.ClientCrypt.CheckChallengeToken(response) {
		sess.Kick("Invalid client response")
		return ErrInvalidClientResponse
	}
	sess.ClientCrypt.SetEncryptedSharedKey(sharedKey)

	if auth != nil && auth.UseCustAuth(sess) {
		if err := auth.OnlineAuthenticate(sess); err != nil {
			sess.Kick("Authentication failed")
			return ErrAuthenticationFailed
		}
	}

	outShared := sess.ServerCrypt.EncryptedSharedKey()
	outResponse, err := sess.ServerCrypt.EncryptChallengeToken()
	if err != nil {
		return err
	}

	if _, err := w.WriteU8(op); err != nil {
		return err
	}
	if _, err := w.WriteI16(int16(len(outShared))); err != nil {
		return err
	}
	if _, err := w.WriteSpan(outShared); err != nil {
		return err
	}
	if _, err := w.WriteI16(int16(len(outResponse))); err != nil {
		return err
	}
	if _, err := w.WriteSpan(outResponse); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// client→server tunnel: read through the client-context, write through
	// the server-context. server→client tunnel (peerR/peerW): the reverse.
	clientIn, err := sess.ClientCrypt.EncryptedInputStream(r.RawSource())
	if err != nil {
		return err
	}
	r.Reset(clientIn)

	serverOut, err := sess.ServerCrypt.EncryptedOutputStream(w.RawSink())
	if err != nil {
		return err
	}
	w.Reset(serverOut)

	serverIn, err := sess.ServerCrypt.EncryptedInputStream(peerR.RawSource())
	if err != nil {
		return err
	}
	peerR.Reset(serverIn)

	clientOut, err := sess.ClientCrypt.EncryptedOutputStream(peerW.RawSink())
	if err != nil {
		return err
	}
	peerW.Reset(clientOut)

	sess.SetState(session.StateEncrypted)
	return nil
}
