package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"202 555 0123", "+12025550123"},
		{"(202) 555-0123", "+12025550123"},
		{"+12025550123", "+12025550123"},
		{"  +31 6 12345678  ", "+31612345678"},
		{"123", "123"},
		{"", ""},
		{"not a number", "not a number"},
	}

	for _, tc := range tests {
		if got := NormalizeE164(tc.input); got != tc.want {
			t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
