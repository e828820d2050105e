package sign

import (
	"bytes"
	"testing"
)

func TestChecksumKnownVector(t *testing.T) {
	got := Checksum([]byte(`{"achievement_id":20}`))
	want := "85D0A85153A24B68C6C217BEEB5903FC"
	if got != want {
		t.Fatalf("checksum = %q, want %q", got, want)
	}
}

func TestChecksumIsDeterministic(t *testing.T) {
	payload := []byte(`{"mine_id":512199}`)
	first := Checksum(payload)
	for i := 0; i < 5; i++ {
		if got := Checksum(payload); got != first {
			t.Fatalf("checksum call %d = %q, want %q", i, got, first)
		}
	}
}

func TestChecksumDistinguishesPayloads(t *testing.T) {
	if Checksum([]byte(`{"mine_id":1}`)) == Checksum([]byte(`{"mine_id":2}`)) {
		t.Fatal("expected different payloads to produce different digests")
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		wantLen int
		wantPad byte
	}{
		{name: "empty", payload: nil, wantLen: 16, wantPad: 16},
		{name: "short", payload: []byte("abc"), wantLen: 16, wantPad: 13},
		{name: "aligned", payload: bytes.Repeat([]byte("a"), 16), wantLen: 32, wantPad: 16},
		{name: "one over", payload: bytes.Repeat([]byte("a"), 17), wantLen: 32, wantPad: 15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pad(tc.payload, 16)
			if len(got) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tc.wantLen)
			}
			for i := len(tc.payload); i < len(got); i++ {
				if got[i] != tc.wantPad {
					t.Fatalf("pad byte %d = %d, want %d", i, got[i], tc.wantPad)
				}
			}
		})
	}
}

func TestPadDoesNotAliasInput(t *testing.T) {
	payload := make([]byte, 3, 64)
	copy(payload, "abc")
	_ = pad(payload, 16)
	if got := payload[:cap(payload)][3]; got != 0 {
		t.Fatalf("input backing array modified: %d", got)
	}
}
