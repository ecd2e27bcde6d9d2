package s3

import (
	"encoding/hex"
	"testing"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/deck.pdf", want: "user/deck.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/deck.pdf", want: "root/user/deck.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/deck.pdf", want: "root/user/deck.pdf"},
		{name: "nested prefix", prefix: "/root/sub/", key: "user/deck.pdf", want: "root/sub/user/deck.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(normalizePrefix(tt.prefix), tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestRandomIDUniqueHex(t *testing.T) {
	t.Parallel()

	a := randomID()
	b := randomID()
	if a == b {
		t.Fatalf("randomID returned the same value twice: %q", a)
	}
	if len(a) != 32 {
		t.Fatalf("randomID length = %d, want 32", len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Fatalf("randomID not hex: %v", err)
	}
}
