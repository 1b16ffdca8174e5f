package grading

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercase", in: "PARIS", want: "paris"},
		{name: "collapse whitespace", in: "the   capital \t is\nparis", want: "the capital is paris"},
		{name: "strip punctuation", in: "the capital, is: paris!?", want: "the capital is paris"},
		{name: "punctuation between words keeps split", in: "one . two", want: "one two"},
		{name: "trim", in: "  paris  ", want: "paris"},
		{name: "empty", in: "", want: ""},
		{name: "only punctuation", in: ".,;:!?", want: ""},
		{name: "unicode kept", in: "Bakı şəhəri", want: "bakı şəhəri"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The  Capital, is Paris!",
		"  already normalized  ",
		"",
		"çoxlu   BOŞLUQ: və DURĞU; işarəsi?",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}
