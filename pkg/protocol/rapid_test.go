package protocol

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

// TestFrameRoundTrip tests that any message within the size bound can be
// encoded and decoded
func TestFrameRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 2048).Draw(t, "payloadLen")
		payload := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "payload")
		original := string(payload)

		var buf bytes.Buffer
		if err := EncodeFrame(&buf, original); err != nil {
			t.Fatalf("encode failed: %v", err)
		}

		decoded, err := DecodeFrame(&buf)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}

		if decoded != original {
			t.Fatalf("payload mismatch: got %q, want %q", decoded, original)
		}
	})
}

// TestFrameSequenceRoundTrip tests that back-to-back frames on one stream
// decode in order without bleeding into each other
func TestFrameSequenceRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(t, "count")
		messages := make([]string, count)
		for i := range messages {
			n := rapid.IntRange(1, 128).Draw(t, "len")
			messages[i] = string(rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "msg"))
		}

		var buf bytes.Buffer
		for _, msg := range messages {
			if err := EncodeFrame(&buf, msg); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
		}

		for i, want := range messages {
			got, err := DecodeFrame(&buf)
			if err != nil {
				t.Fatalf("decode %d failed: %v", i, err)
			}
			if got != want {
				t.Fatalf("message %d mismatch: got %q, want %q", i, got, want)
			}
		}
	})
}
