package urlnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips fragment", "https://x.com/p#top", "https://x.com/p"},
		{"strips trailing slash", "https://x.com/p/", "https://x.com/p"},
		{"keeps root slash", "https://x.com/", "https://x.com/"},
		{"sorts query params", "https://x.com/p?b=2&a=1", "https://x.com/p?a=1&b=2"},
		{"combines all three", "https://x.com/p/?b=2&a=1#top", "https://x.com/p?a=1&b=2"},
		{"unparseable returned unchanged", "://bad", "://bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"https://x.com/p/?b=2&a=1#top",
		"https://x.com/",
		"https://x.com/a/b/c?z=1&y=2&y=1",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent: Normalize(%q)=%q, Normalize(that)=%q", in, once, twice)
		}
	}
}

func TestNormalizeDedupScenarioS3(t *testing.T) {
	// S3: "./p?b=2&a=1#top" resolved against https://x.com/p normalizes
	// to the same form as a previously visited https://x.com/p?a=1&b=2
	got := Normalize("https://x.com/p?b=2&a=1#top")
	want := Normalize("https://x.com/p?a=1&b=2")
	if got != want {
		t.Fatalf("expected dedup equality, got %q vs %q", got, want)
	}
}
