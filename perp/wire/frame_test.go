package wire

import (
	"bytes"
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/betbot/goperp/perp/types"
)

func protocolReason(t *testing.T, err error) types.ProtocolReason {
	t.Helper()
	var pe *types.ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	return pe.Reason
}

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0xff}
	framed, err := EncodeFrame(payload)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	got, err := DecodeFrame(framed)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload got=%x want=%x", got, payload)
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	framed, err := EncodeFrame(nil)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	got, err := DecodeFrame(framed)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %x", got)
	}
}

func TestEncodeFrame_Oversize(t *testing.T) {
	_, err := EncodeFrame(make([]byte, MaxPayloadSize+1))
	if got := protocolReason(t, err); got != types.ReasonOversize {
		t.Fatalf("reason got=%q want=%q", got, types.ReasonOversize)
	}
}

func TestDecodeFrame_DeclaredOversize(t *testing.T) {
	buf := protowire.AppendVarint(nil, uint64(MaxPayloadSize+1))
	_, err := DecodeFrame(buf)
	if got := protocolReason(t, err); got != types.ReasonOversize {
		t.Fatalf("reason got=%q want=%q", got, types.ReasonOversize)
	}
}

func TestDecodeFrame_Truncated(t *testing.T) {
	// Declared length 10, only 3 bytes follow.
	buf := protowire.AppendVarint(nil, 10)
	buf = append(buf, 0x01, 0x02, 0x03)
	_, err := DecodeFrame(buf)
	if got := protocolReason(t, err); got != types.ReasonTruncated {
		t.Fatalf("reason got=%q want=%q", got, types.ReasonTruncated)
	}
}

func TestDecodeFrame_EmptyBuffer(t *testing.T) {
	_, err := DecodeFrame(nil)
	if got := protocolReason(t, err); got != types.ReasonTruncated {
		t.Fatalf("reason got=%q want=%q", got, types.ReasonTruncated)
	}
}

func TestDecodeFrame_TrailingBytesIgnored(t *testing.T) {
	payload := []byte{0xaa, 0xbb}
	framed, err := EncodeFrame(payload)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	// Caller-framed streams may carry a signature after the message.
	framed = append(framed, bytes.Repeat([]byte{0xee}, 64)...)
	got, err := DecodeFrame(framed)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload got=%x want=%x", got, payload)
	}
}
