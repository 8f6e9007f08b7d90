package github

import (
	"context"
	"errors"
	"fmt"

	gh "github.com/google/go-github/v68/github"
)

var errStub = errors.New("404 Not Found")

// stubAPI is an in-memory API. Nil fields fail with errStub.
type stubAPI struct {
	user     *gh.User
	repos    map[string]*gh.Repository
	files    map[string]*gh.RepositoryContent
	dirs     map[string][]*gh.RepositoryContent
	code     []*gh.CodeResult
	issues   []*gh.Issue
	issue    map[int]*gh.Issue
	prs      []*gh.PullRequest
	search   []*gh.Repository
	created  *gh.Issue
	calls    []string
	gotLimit int
	gotBody  string
}

func (s *stubAPI) record(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *stubAPI) AuthenticatedUser(context.Context) (*gh.User, error) {
	s.record("user")
	if s.user == nil {
		return nil, errors.New("401 Bad credentials")
	}
	return s.user, nil
}

func (s *stubAPI) GetRepository(_ context.Context, owner, repo string) (*gh.Repository, error) {
	s.record("repo %s/%s", owner, repo)
	if r, ok := s.repos[owner+"/"+repo]; ok {
		return r, nil
	}
	return nil, errStub
}

func (s *stubAPI) GetContents(_ context.Context, owner, repo, path string) (*gh.RepositoryContent, []*gh.RepositoryContent, error) {
	key := owner + "/" + repo + ":" + path
	s.record("contents %s", key)
	if f, ok := s.files[key]; ok {
		return f, nil, nil
	}
	if d, ok := s.dirs[key]; ok {
		return nil, d, nil
	}
	return nil, nil, errStub
}

func (s *stubAPI) SearchCode(_ context.Context, query string, limit int) ([]*gh.CodeResult, error) {
	s.record("code %s", query)
	s.gotLimit = limit
	return s.code, nil
}

func (s *stubAPI) ListOpenIssues(_ context.Context, owner, repo string, limit int) ([]*gh.Issue, error) {
	s.record("issues %s/%s", owner, repo)
	s.gotLimit = limit
	return s.issues, nil
}

func (s *stubAPI) GetIssue(_ context.Context, owner, repo string, number int) (*gh.Issue, error) {
	s.record("issue %s/%s#%d", owner, repo, number)
	if i, ok := s.issue[number]; ok {
		return i, nil
	}
	return nil, errStub
}

func (s *stubAPI) ListOpenPullRequests(_ context.Context, owner, repo string, limit int) ([]*gh.PullRequest, error) {
	s.record("prs %s/%s", owner, repo)
	s.gotLimit = limit
	return s.prs, nil
}

func (s *stubAPI) SearchRepositories(_ context.Context, query string, limit int) ([]*gh.Repository, error) {
	s.record("search %s", query)
	s.gotLimit = limit
	return s.search, nil
}

func (s *stubAPI) CreateIssue(_ context.Context, owner, repo, title, body string) (*gh.Issue, error) {
	s.record("create %s/%s %s", owner, repo, title)
	s.gotBody = body
	if s.created == nil {
		return nil, errStub
	}
	return s.created, nil
}
