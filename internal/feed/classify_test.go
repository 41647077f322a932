package feed

import (
	"encoding/json"
	"testing"

	"ghdigest/internal/digest"
)

func env(typ, repo, payload string) Envelope {
	return Envelope{
		Type:    typ,
		Repo:    Repo{Name: repo},
		Payload: json.RawMessage(payload),
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		ev      Envelope
		want    digest.Item
		tracked bool
	}{
		{
			name: "issue comment",
			ev: env("IssueCommentEvent", "a/b",
				`{"issue": {"node_id": "I_1", "url": "https://api.github.com/repos/a/b/issues/5", "title": "an issue"}}`),
			want:    digest.Item{NodeID: "I_1", URL: "https://api.github.com/repos/a/b/issues/5", Title: "an issue"},
			tracked: true,
		},
		{
			name: "pull request review",
			ev: env("PullRequestReviewEvent", "a/b",
				`{"pull_request": {"node_id": "PR_1", "url": "https://api.github.com/repos/a/b/pulls/6", "title": "a pr"}}`),
			want:    digest.Item{NodeID: "PR_1", URL: "https://api.github.com/repos/a/b/pulls/6", Title: "a pr"},
			tracked: true,
		},
		{
			name: "release maps html_url and name",
			ev: env("ReleaseEvent", "a/b",
				`{"release": {"node_id": "RE_1", "html_url": "https://github.com/a/b/releases/tag/v1", "name": "v1"}}`),
			want:    digest.Item{NodeID: "RE_1", URL: "https://github.com/a/b/releases/tag/v1", Title: "v1"},
			tracked: true,
		},
		{name: "watch skipped", ev: env("WatchEvent", "a/b", `{}`)},
		{name: "push skipped", ev: env("PushEvent", "a/b", `{"commits": []}`)},
		{name: "fork skipped", ev: env("ForkEvent", "a/b", `{}`)},
		{name: "unknown skipped", ev: env("SomethingNewEvent", "a/b", `{}`)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok, err := Classify(c.ev)
			if err != nil {
				t.Fatal(err)
			}
			if ok != c.tracked {
				t.Fatalf("tracked = %v, want %v", ok, c.tracked)
			}
			if ok && got != c.want {
				t.Fatalf("got %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestClassifyBadPayload(t *testing.T) {
	_, _, err := Classify(env("IssuesEvent", "a/b", `{`))
	if err == nil {
		t.Fatal("want error for malformed payload of tracked type")
	}
}

func TestFoldEndToEnd(t *testing.T) {
	owners := digest.NewOwnerSet("djc")
	events := []Envelope{
		env("IssuesEvent", "djc/foo",
			`{"issue": {"node_id": "I_1", "url": "https://api.github.com/repos/djc/foo/issues/1", "title": "first"}}`),
		env("PullRequestEvent", "bar/baz",
			`{"pull_request": {"node_id": "PR_2", "url": "https://api.github.com/repos/bar/baz/pulls/2", "title": "second"}}`),
		env("WatchEvent", "djc/foo", `{}`),
	}

	d, err := Fold(events, owners)
	if err != nil {
		t.Fatal(err)
	}

	if got := d["foo"]["https://api.github.com/repos/djc/foo/issues/1"]; got != "first" {
		t.Fatalf("foo item = %q", got)
	}
	// the pulls API segment is canonicalized before aggregation
	if got := d["bar/baz"]["https://api.github.com/repos/bar/baz/pull/2"]; got != "second" {
		t.Fatalf("bar/baz item = %q (items: %v)", got, d["bar/baz"])
	}
	if len(d) != 2 {
		t.Fatalf("got %d projects, want 2", len(d))
	}
}

func TestFoldMalformedRepoFailsRun(t *testing.T) {
	events := []Envelope{
		env("IssuesEvent", "noslash",
			`{"issue": {"node_id": "I_1", "url": "https://api.github.com/repos/a/b/issues/1", "title": "t"}}`),
	}
	if _, err := Fold(events, digest.NewOwnerSet()); err == nil {
		t.Fatal("want error for malformed repository name")
	}
}
