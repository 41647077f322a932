package feed

import (
	"encoding/json"
	"fmt"

	"ghdigest/internal/digest"
)

// itemRef is the sub-object shared by issue and pull request payloads.
type itemRef struct {
	NodeID string `json:"node_id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

type issuePayload struct {
	Issue itemRef `json:"issue"`
}

type pullPayload struct {
	PullRequest itemRef `json:"pull_request"`
}

type releasePayload struct {
	Release struct {
		NodeID  string `json:"node_id"`
		HTMLURL string `json:"html_url"`
		Name    string `json:"name"`
	} `json:"release"`
}

// Classify extracts a digest item from a feed event. The boolean is false
// for event types that contribute nothing (create, delete, fork, push, watch
// and so on); a malformed payload of a tracked type is an error.
func Classify(ev Envelope) (digest.Item, bool, error) {
	switch ev.Type {
	case "IssuesEvent", "IssueCommentEvent":
		var p issuePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return digest.Item{}, false, fmt.Errorf("decode %s payload: %w", ev.Type, err)
		}
		return digest.Item{NodeID: p.Issue.NodeID, URL: p.Issue.URL, Title: p.Issue.Title}, true, nil

	case "PullRequestEvent", "PullRequestReviewEvent", "PullRequestReviewCommentEvent":
		var p pullPayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return digest.Item{}, false, fmt.Errorf("decode %s payload: %w", ev.Type, err)
		}
		return digest.Item{NodeID: p.PullRequest.NodeID, URL: p.PullRequest.URL, Title: p.PullRequest.Title}, true, nil

	case "ReleaseEvent":
		var p releasePayload
		if err := json.Unmarshal(ev.Payload, &p); err != nil {
			return digest.Item{}, false, fmt.Errorf("decode %s payload: %w", ev.Type, err)
		}
		return digest.Item{NodeID: p.Release.NodeID, URL: p.Release.HTMLURL, Title: p.Release.Name}, true, nil

	default:
		return digest.Item{}, false, nil
	}
}

// Fold classifies a window of events and folds them into a digest grouped by
// project key. Events must arrive in the order whose last title should win.
func Fold(events []Envelope, owners digest.OwnerSet) (digest.Digest, error) {
	d := digest.New()
	for _, ev := range events {
		item, ok, err := Classify(ev)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		item = digest.Canonicalize(item)

		project, err := digest.ProjectKey(ev.Repo.Name, owners)
		if err != nil {
			return nil, err
		}
		d.Add(project, item.URL, item.Title)
	}
	return d, nil
}
