package utils

import (
	"strings"
	"testing"
)

func TestGenerateMemberReferralCodeFormat(t *testing.T) {
	code, err := GenerateMemberReferralCode()
	if err != nil {
		t.Fatalf("GenerateMemberReferralCode: %v", err)
	}

	if !strings.HasPrefix(code, "MBR-") {
		t.Fatalf("code %q does not carry the member prefix", code)
	}
	random := strings.TrimPrefix(code, "MBR-")
	if len(random) != 6 {
		t.Fatalf("code %q random part has %d characters, want 6", code, len(random))
	}
	for _, r := range random {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			t.Errorf("code %q contains non-alphanumeric character %q", code, r)
		}
	}
}

func TestGenerateReferralCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateReferralCode(CustomerType)
		if err != nil {
			t.Fatalf("GenerateReferralCode: %v", err)
		}
		if !strings.HasPrefix(code, "CST-") {
			t.Fatalf("code %q does not carry the customer prefix", code)
		}
		seen[code] = true
	}
	// 100 draws from a 36^6 space colliding down to a handful would mean the
	// randomness is broken.
	if len(seen) < 90 {
		t.Errorf("100 draws produced only %d distinct codes", len(seen))
	}
}
