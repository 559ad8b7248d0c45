package event

import (
	"errors"
	"testing"
)

func TestDecodePayload_PointWonFlags(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"serveType":"SECOND","exit34":true,"returnPoint":true}`)
	detail, err := DecodePayload(TypePointWon, raw)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}

	won, ok := detail.(PointWonDetail)
	if !ok {
		t.Fatalf("unexpected detail type: %T", detail)
	}
	if won.Serve != ServeSecond {
		t.Fatalf("unexpected serve: got=%q want=%q", won.Serve, ServeSecond)
	}
	if !won.Exit34 || !won.ReturnPoint {
		t.Fatalf("expected both flags set: %+v", won)
	}
}

func TestDecodePayload_PointLost(t *testing.T) {
	t.Parallel()

	detail, err := DecodePayload(TypePointLost, []byte(`{"exit34":true}`))
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}

	lost, ok := detail.(PointLostDetail)
	if !ok {
		t.Fatalf("unexpected detail type: %T", detail)
	}
	if !lost.Exit34 {
		t.Fatal("expected exit34 flag set")
	}
}

func TestDecodePayload_CaseInsensitiveServe(t *testing.T) {
	t.Parallel()

	detail, err := DecodePayload(TypePointWon, []byte(`{"serveType":"first"}`))
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}
	if detail.(PointWonDetail).Serve != ServeFirst {
		t.Fatalf("unexpected serve: %+v", detail)
	}
}

func TestDecodePayload_UnknownServeType(t *testing.T) {
	t.Parallel()

	_, err := DecodePayload(TypePointWon, []byte(`{"serveType":"THIRD"}`))
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestDecodePayload_EmptyAndNull(t *testing.T) {
	t.Parallel()

	for _, raw := range [][]byte{nil, []byte("null")} {
		detail, err := DecodePayload(TypePointWon, raw)
		if err != nil {
			t.Fatalf("DecodePayload error: %v", err)
		}
		if detail != nil {
			t.Fatalf("expected nil detail, got %#v", detail)
		}
	}
}

func TestDecodePayload_UnknownTagIsNoOp(t *testing.T) {
	t.Parallel()

	detail, err := DecodePayload(Type("DRIVE_VOLLEY_WINNER"), []byte(`{"serveType":"FIRST"}`))
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}
	if detail != nil {
		t.Fatalf("expected nil detail for unknown tag, got %#v", detail)
	}
}

func TestEncodePayload_RoundTrip(t *testing.T) {
	t.Parallel()

	in := PointWonDetail{Serve: ServeFirst, Exit34: true}
	raw, err := EncodePayload(in)
	if err != nil {
		t.Fatalf("EncodePayload error: %v", err)
	}

	out, err := DecodePayload(TypePointWon, raw)
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got=%#v want=%#v", out, in)
	}
}

func TestTypeKnown(t *testing.T) {
	t.Parallel()

	if !TypeFirstServeIn.Known() {
		t.Fatal("FIRST_SERVE_IN should be known")
	}
	if Type("DRONE_FOOTAGE").Known() {
		t.Fatal("made-up tag should not be known")
	}
	if len(AllTypes) != 17 {
		t.Fatalf("taxonomy size changed: %d", len(AllTypes))
	}
}
