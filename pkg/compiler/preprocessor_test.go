package compiler

import "testing"

func TestStripComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"No Comments", "int x = 1;", "int x = 1;"},
		{"Line Comment", "x; // note\ny;", "x;        \ny;"},
		{"Line Comment At End", "x; //", "x;   "},
		{"Block Comment", "a /* b */ c", "a         c"},
		{"Block Comment Keeps Newlines", "a /* 1\n2 */ b", "a     \n     b"},
		{"Star Before Close", "a /** x **/ b", "a           b"},
		{"Unterminated Block", "a /* b\nc", "a     \n "},
		{"Marker In String", `s = "http://x"; // c`, `s = "http://x";     `},
		{"Marker In Char", `c = '/'; /**/`, `c = '/';     `},
		{"Escaped Quote In String", `"a\"//" x`, `"a\"//" x`},
		{"Division Is Not A Comment", "a / b", "a / b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripComments(tt.input)
			if got != tt.expected {
				t.Errorf("StripComments(%q)\n got: %q\nwant: %q", tt.input, got, tt.expected)
			}
			if len(got) != len(tt.input) {
				t.Errorf("length changed from %d to %d", len(tt.input), len(got))
			}
		})
	}
}
