package joincode

import "testing"

func TestNew(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := New()
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if !Valid(code) {
			t.Fatalf("generated invalid code %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 45 {
		t.Errorf("expected mostly unique codes, got %d distinct of 50", len(seen))
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  abc234 "); got != "ABC234" {
		t.Errorf("Normalize = %q, want ABC234", got)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABC234", true},
		{"ABC23", false},
		{"ABC2345", false},
		{"ABC230", false}, // 0 is not in the alphabet
		{"abc234", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.code); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
