// Package github exposes GitHub repository operations as single-string tools
// and builds the tool catalog from a resolved credential source.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// API is the subset of the GitHub REST API the tools depend on.
type API interface {
	AuthenticatedUser(ctx context.Context) (*gh.User, error)
	GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error)
	GetContents(ctx context.Context, owner, repo, path string) (*gh.RepositoryContent, []*gh.RepositoryContent, error)
	SearchCode(ctx context.Context, query string, limit int) ([]*gh.CodeResult, error)
	ListOpenIssues(ctx context.Context, owner, repo string, limit int) ([]*gh.Issue, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (*gh.Issue, error)
	ListOpenPullRequests(ctx context.Context, owner, repo string, limit int) ([]*gh.PullRequest, error)
	SearchRepositories(ctx context.Context, query string, limit int) ([]*gh.Repository, error)
	CreateIssue(ctx context.Context, owner, repo, title, body string) (*gh.Issue, error)
}

// ClientConfig configures the go-github backed client.
type ClientConfig struct {
	// BaseURL overrides the API endpoint (GitHub Enterprise or tests).
	BaseURL string

	// HTTPClient is the transport used underneath the token source.
	HTTPClient *http.Client
}

// Client implements API with go-github.
type Client struct {
	gh *gh.Client
}

// NewClient creates a client authenticated with a static token.
func NewClient(ctx context.Context, token string, cfg ClientConfig) (*Client, error) {
	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	c := gh.NewClient(oauth2.NewClient(ctx, ts))
	if err := setBaseURL(c, cfg.BaseURL); err != nil {
		return nil, err
	}
	return &Client{gh: c}, nil
}

// Wrap adapts an existing go-github client.
func Wrap(c *gh.Client) *Client {
	return &Client{gh: c}
}

func setBaseURL(c *gh.Client, base string) error {
	if base == "" {
		return nil
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid GitHub base URL %q: %w", base, err)
	}
	c.BaseURL = u
	return nil
}

// AuthenticatedUser returns the user the token belongs to.
func (c *Client) AuthenticatedUser(ctx context.Context) (*gh.User, error) {
	u, _, err := c.gh.Users.Get(ctx, "")
	return u, err
}

// GetRepository fetches repository metadata.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	r, _, err := c.gh.Repositories.Get(ctx, owner, repo)
	return r, err
}

// GetContents fetches a file or a directory listing.
func (c *Client) GetContents(ctx context.Context, owner, repo, path string) (*gh.RepositoryContent, []*gh.RepositoryContent, error) {
	file, dir, _, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	return file, dir, err
}

// SearchCode returns the first page of code search results.
func (c *Client) SearchCode(ctx context.Context, query string, limit int) ([]*gh.CodeResult, error) {
	res, _, err := c.gh.Search.Code(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, err
	}
	return res.CodeResults, nil
}

// ListOpenIssues returns open issues in upstream order (newest first).
func (c *Client) ListOpenIssues(ctx context.Context, owner, repo string, limit int) ([]*gh.Issue, error) {
	issues, _, err := c.gh.Issues.ListByRepo(ctx, owner, repo, &gh.IssueListByRepoOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	return issues, err
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*gh.Issue, error) {
	issue, _, err := c.gh.Issues.Get(ctx, owner, repo, number)
	return issue, err
}

// ListOpenPullRequests returns open pull requests in upstream order.
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo string, limit int) ([]*gh.PullRequest, error) {
	prs, _, err := c.gh.PullRequests.List(ctx, owner, repo, &gh.PullRequestListOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	return prs, err
}

// SearchRepositories returns the first page of repository search results.
func (c *Client) SearchRepositories(ctx context.Context, query string, limit int) ([]*gh.Repository, error) {
	res, _, err := c.gh.Search.Repositories(ctx, query, &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, err
	}
	return res.Repositories, nil
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string) (*gh.Issue, error) {
	req := &gh.IssueRequest{Title: gh.Ptr(title)}
	if body != "" {
		req.Body = gh.Ptr(body)
	}
	issue, _, err := c.gh.Issues.Create(ctx, owner, repo, req)
	return issue, err
}
