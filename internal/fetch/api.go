package fetch

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/cameronsjo/stevedore/internal/selector"
)

// APIFetcher reads file contents through the GitHub Contents API. With a
// token it reaches private repositories; without one it uses the
// unauthenticated rate limit.
type APIFetcher struct {
	client *gh.Client
}

// NewAPIFetcher creates an API fetcher. An empty token means anonymous
// access.
func NewAPIFetcher(token string) *APIFetcher {
	var hc *http.Client
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(context.Background(), src)
	}
	return &APIFetcher{client: gh.NewClient(hc)}
}

// Fetch retrieves the file at the selector's reference via the Contents API.
func (f *APIFetcher) Fetch(ctx context.Context, sel selector.Selector) (string, error) {
	owner, repo := sel.OwnerRepo()

	file, _, _, err := f.client.Repositories.GetContents(ctx, owner, repo, sel.Path,
		&gh.RepositoryContentGetOptions{Ref: sel.Reference})
	if err != nil {
		return "", fmt.Errorf("get contents: %w", err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is a directory, not a file", sel.Path)
	}

	// GetContent handles the API's base64 encoding.
	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode contents: %w", err)
	}
	return content, nil
}
