package client

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/betbot/goperp/perp/signing"
	"github.com/betbot/goperp/perp/types"
	"github.com/betbot/goperp/perp/wire"
)

// fakeChannel records every submitted payload and replies with a canned
// receipt (or error) per call.
type fakeChannel struct {
	calls   [][]byte
	receipt *types.Receipt
	err     error
}

func (f *fakeChannel) RoundTrip(ctx context.Context, payload []byte) ([]byte, error) {
	f.calls = append(f.calls, append([]byte(nil), payload...))
	if f.err != nil {
		return nil, f.err
	}
	return wire.EncodeReceipt(f.receipt)
}

const testWalletKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func testSessionSigner(t *testing.T) *signing.Ed25519SessionSigner {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	s, err := signing.NewSessionSignerFromSeed(seed)
	if err != nil {
		t.Fatalf("NewSessionSignerFromSeed: %v", err)
	}
	return s
}

func testWalletSigner(t *testing.T) *signing.PrivateKeyWalletSigner {
	t.Helper()
	w, err := signing.NewWalletSignerFromHex(testWalletKey)
	if err != nil {
		t.Fatalf("NewWalletSignerFromHex: %v", err)
	}
	return w
}

func TestSubmit_SessionSignedAction(t *testing.T) {
	session := testSessionSigner(t)
	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.CancelOrderResult{OrderID: 7}}}
	tr := NewTransport(ch, nil, session)

	b := NewBuilder(fixedClock(100))
	action, err := b.CancelOrderByID(CancelOrderParams{SessionID: 1, OrderID: 7})
	if err != nil {
		t.Fatalf("CancelOrderByID: %v", err)
	}
	payload, err := tr.Submit(context.Background(), action)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := payload.(types.CancelOrderResult).OrderID; got != 7 {
		t.Fatalf("orderID got=%d want=7", got)
	}

	// Submitted bytes must be the framed action followed by a valid
	// Ed25519 signature over the framed bytes.
	if len(ch.calls) != 1 {
		t.Fatalf("calls got=%d want=1", len(ch.calls))
	}
	sent := ch.calls[0]
	encoded, err := wire.EncodeAction(action)
	if err != nil {
		t.Fatalf("EncodeAction: %v", err)
	}
	if len(sent) != len(encoded)+ed25519.SignatureSize {
		t.Fatalf("authenticated length got=%d want=%d", len(sent), len(encoded)+ed25519.SignatureSize)
	}
	if !bytes.Equal(sent[:len(encoded)], encoded) {
		t.Fatal("authenticated message does not start with encoded action")
	}
	sig := sent[len(encoded):]
	if !ed25519.Verify(ed25519.PublicKey(session.Pubkey()), encoded, sig) {
		t.Fatal("session signature does not verify")
	}

	// Round-tripping the sent prefix recovers the original action.
	decoded, err := wire.DecodeAction(sent[:len(encoded)])
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	if decoded.Payload.(types.CancelOrderByID).OrderID != 7 {
		t.Fatal("decoded action does not match submitted action")
	}
}

func TestSubmit_WalletSignedCreateSession(t *testing.T) {
	wallet := testWalletSigner(t)
	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.CreateSessionResult{SessionID: 9}}}
	tr := NewTransport(ch, wallet, nil)

	b := NewBuilder(fixedClock(100))
	action, err := b.CreateSession(wallet.Pubkey(), make([]byte, 32), 0)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	payload, err := tr.Submit(context.Background(), action)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := payload.(types.CreateSessionResult).SessionID; got != 9 {
		t.Fatalf("sessionID got=%d want=9", got)
	}

	sent := ch.calls[0]
	encoded, err := wire.EncodeAction(action)
	if err != nil {
		t.Fatalf("EncodeAction: %v", err)
	}
	if len(sent) != len(encoded)+64 {
		t.Fatalf("authenticated length got=%d want=%d", len(sent), len(encoded)+64)
	}
	hash := crypto.Keccak256(encoded)
	if !crypto.VerifySignature(wallet.Pubkey(), hash, sent[len(encoded):]) {
		t.Fatal("wallet signature does not verify")
	}
}

func TestSubmit_MissingSigner(t *testing.T) {
	b := NewBuilder(fixedClock(100))

	// No wallet: session lifecycle actions are rejected.
	tr := NewTransport(&fakeChannel{}, nil, testSessionSigner(t))
	action, err := b.RevokeSession(1)
	if err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	if _, err := tr.Submit(context.Background(), action); err == nil {
		t.Fatal("expected error without wallet signer")
	}

	// No session: trading actions are rejected.
	tr = NewTransport(&fakeChannel{}, testWalletSigner(t), nil)
	action, err = b.CancelOrderByID(CancelOrderParams{SessionID: 1, OrderID: 1})
	if err != nil {
		t.Fatalf("CancelOrderByID: %v", err)
	}
	if _, err := tr.Submit(context.Background(), action); err == nil {
		t.Fatal("expected error without session signer")
	}
}

func TestSubmit_ErrReceipt(t *testing.T) {
	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.ErrResult{Code: 13, Message: "insufficient balance"}}}
	tr := NewTransport(ch, nil, testSessionSigner(t))

	b := NewBuilder(fixedClock(100))
	action, err := b.CancelOrderByID(CancelOrderParams{SessionID: 1, OrderID: 7})
	if err != nil {
		t.Fatalf("CancelOrderByID: %v", err)
	}
	_, err = tr.Submit(context.Background(), action)
	var se *types.ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if se.Code != 13 || se.Message != "insufficient balance" {
		t.Fatalf("server error got=%+v", se)
	}
}

func TestSubmit_MismatchedReceiptKind(t *testing.T) {
	// Cancel answered with a place-order receipt.
	ch := &fakeChannel{receipt: &types.Receipt{Payload: types.PlaceOrderResult{OrderID: 1}}}
	tr := NewTransport(ch, nil, testSessionSigner(t))

	b := NewBuilder(fixedClock(100))
	action, err := b.CancelOrderByID(CancelOrderParams{SessionID: 1, OrderID: 7})
	if err != nil {
		t.Fatalf("CancelOrderByID: %v", err)
	}
	_, err = tr.Submit(context.Background(), action)
	var pe *types.ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	if pe.Reason != types.ReasonUnexpectedReceipt {
		t.Fatalf("reason got=%q want=%q", pe.Reason, types.ReasonUnexpectedReceipt)
	}
}

func TestSubmit_ChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("connection reset")}
	tr := NewTransport(ch, nil, testSessionSigner(t))

	b := NewBuilder(fixedClock(100))
	action, err := b.CancelOrderByID(CancelOrderParams{SessionID: 1, OrderID: 7})
	if err != nil {
		t.Fatalf("CancelOrderByID: %v", err)
	}
	if _, err := tr.Submit(context.Background(), action); err == nil {
		t.Fatal("expected channel error to propagate")
	}
}
