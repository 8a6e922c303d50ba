package cleaner

import "testing"

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty passthrough",
			in:   "",
			want: "",
		},
		{
			name: "hyphenated line break joined",
			in:   "under-\nstanding the pipe-\nline",
			want: "understanding the pipeline",
		},
		{
			name: "literal escaped newlines removed",
			in:   `first\nsecond`,
			want: "firstsecond",
		},
		{
			name: "unicode escape text removed",
			in:   `bullet  point \u00e9 done`,
			want: "bullet point done",
		},
		{
			name: "private use glyphs removed",
			in:   "a  b  c",
			want: "a b c",
		},
		{
			name: "em dash runs removed",
			in:   "title —————————— body",
			want: "title body",
		},
		{
			name: "spaced hyphen normalised",
			in:   "state - of - the - art",
			want: "state-of-the-art",
		},
		{
			name: "whitespace collapsed",
			in:   "too\t many\n\n  spaces",
			want: "too many spaces",
		},
		{
			name: "plain text unchanged",
			in:   "nothing to do here",
			want: "nothing to do here",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Clean(tc.in)
			if got != tc.want {
				t.Errorf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClean_Idempotent(t *testing.T) {
	in := "some-\nthing  with  noise - here"
	once := Clean(in)
	twice := Clean(once)
	if once != twice {
		t.Errorf("Clean not idempotent: %q vs %q", once, twice)
	}
}
