package digest

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name string
		in   Item
		want string
	}{
		{
			name: "pr through issues endpoint",
			in:   Item{NodeID: "PR_kwDO123", URL: "https://api.github.com/repos/a/b/issues/42"},
			want: "https://api.github.com/repos/a/b/pull/42",
		},
		{
			name: "real issue untouched",
			in:   Item{NodeID: "I_kwDO123", URL: "https://api.github.com/repos/a/b/issues/42"},
			want: "https://api.github.com/repos/a/b/issues/42",
		},
		{
			name: "pulls api path",
			in:   Item{NodeID: "PR_kwDO123", URL: "https://api.github.com/repos/a/b/pulls/7"},
			want: "https://api.github.com/repos/a/b/pull/7",
		},
		{
			name: "already canonical",
			in:   Item{NodeID: "PR_kwDO123", URL: "https://github.com/a/b/pull/7"},
			want: "https://github.com/a/b/pull/7",
		},
		{
			name: "release html url",
			in:   Item{NodeID: "RE_kwDO123", URL: "https://github.com/a/b/releases/tag/v1.0"},
			want: "https://github.com/a/b/releases/tag/v1.0",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			once := Canonicalize(c.in)
			if once.URL != c.want {
				t.Fatalf("got %q, want %q", once.URL, c.want)
			}
			twice := Canonicalize(once)
			if twice.URL != once.URL {
				t.Fatalf("not idempotent: %q then %q", once.URL, twice.URL)
			}
		})
	}
}
