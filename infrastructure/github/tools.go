package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/agent-squad/domain/tool"
)

// Tool names.
const (
	ToolRepoInfo           = "get_github_repo_info"
	ToolListFiles          = "list_github_repo_files"
	ToolReadFile           = "read_github_file"
	ToolSearchCode         = "search_github_code"
	ToolListIssues         = "list_github_issues"
	ToolGetIssue           = "get_github_issue"
	ToolListPRs            = "list_github_prs"
	ToolSearchRepositories = "search_github_repositories"
	ToolCreateIssue        = "create_github_issue"
)

// Result limits.
const (
	codeSearchLimit = 10
	issueListLimit  = 20
	prListLimit     = 20
	repoSearchLimit = 15
)

// Fixed messages for malformed composite arguments.
const (
	msgReadFileFormat = "Input must be in format 'owner/repo:path/to/file'"
	msgGetIssueFormat = "Input must be in format 'owner/repo:issue_number'"
)

// createdLayout renders timestamps as "2011-04-22 13:33:48+00:00".
const createdLayout = "2006-01-02 15:04:05-07:00"

// Toolset builds GitHub tools bound to one client and an optional default
// repository.
type Toolset struct {
	api         API
	defaultRepo string
}

// NewToolset creates a toolset. defaultRepo may be empty.
func NewToolset(api API, defaultRepo string) *Toolset {
	return &Toolset{api: api, defaultRepo: strings.TrimSpace(defaultRepo)}
}

// ReadTools returns the eight repository tools in catalog order.
func (s *Toolset) ReadTools() []tool.Tool {
	return []tool.Tool{
		s.repoInfoTool(),
		s.listFilesTool(),
		s.readFileTool(),
		s.searchCodeTool(),
		s.listIssuesTool(),
		s.getIssueTool(),
		s.listPRsTool(),
		s.searchReposTool(),
	}
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

func (s *Toolset) repoInfoTool() tool.Tool {
	const action = "getting repository info"
	return tool.NewBuilder(ToolRepoInfo).
		WithDescription("Get detailed information about a GitHub repository. Input should be the repository name in format 'owner/repo', for example 'microsoft/vscode' or 'facebook/react'.").
		ReadOnly().
		WithTags("github", "repository").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			owner, name, err := s.repoOrDefault(input)
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			r, err := s.api.GetRepository(ctx, owner, name)
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			return fmt.Sprintf(`Repository: %s
Description: %s
Stars: %d
Forks: %d
Open Issues: %d
Default Branch: %s
Language: %s
URL: %s`,
				r.GetFullName(),
				orNone(r.GetDescription()),
				r.GetStargazersCount(),
				r.GetForksCount(),
				r.GetOpenIssuesCount(),
				r.GetDefaultBranch(),
				orNone(r.GetLanguage()),
				r.GetHTMLURL(),
			), nil
		}).
		MustBuild()
}

func (s *Toolset) listFilesTool() tool.Tool {
	const action = "listing files"
	return tool.NewBuilder(ToolListFiles).
		WithDescription("List files and directories in a GitHub repository. Input format: 'owner/repo:path' to list a specific directory, or 'owner/repo' to list the root directory. For example: 'microsoft/vscode:src' or 'facebook/react'").
		ReadOnly().
		WithTags("github", "contents").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			repoName, path, _ := splitComposite(input)
			owner, name, err := s.repoOrDefault(repoName)
			if err != nil {
				return "", tool.Upstream(action, err)
			}

			file, dir, err := s.api.GetContents(ctx, owner, name, path)
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			if file != nil {
				dir = append(dir, file)
			}

			lines := make([]string, 0, len(dir))
			for _, c := range dir {
				kind := "file"
				if c.GetType() == "dir" {
					kind = "dir"
				}
				lines = append(lines, fmt.Sprintf("[%s] %s", kind, c.GetPath()))
			}
			if len(lines) == 0 {
				return "No files found", nil
			}
			return strings.Join(lines, "\n"), nil
		}).
		MustBuild()
}

func (s *Toolset) readFileTool() tool.Tool {
	const action = "reading file"
	return tool.NewBuilder(ToolReadFile).
		WithDescription("Read the content of a file from a GitHub repository. Input must be in format 'owner/repo:path/to/file', for example 'microsoft/vscode:README.md' or 'facebook/react:packages/react/index.js'").
		ReadOnly().
		WithTags("github", "contents").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			repoName, path, ok := splitComposite(input)
			if !ok {
				return "", tool.Malformed(msgReadFileFormat)
			}
			owner, name, err := s.repoOrDefault(repoName)
			if err != nil {
				return "", tool.Upstream(action, err)
			}

			file, _, err := s.api.GetContents(ctx, owner, name, path)
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			if file == nil || file.GetType() != "file" {
				return "", tool.InvalidTarget(path + " is not a file")
			}

			content, err := file.GetContent()
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			if !utf8.ValidString(content) {
				return "", tool.Upstream(action, fmt.Errorf("%s is not valid UTF-8 text", path))
			}
			return content, nil
		}).
		MustBuild()
}

func (s *Toolset) searchCodeTool() tool.Tool {
	const action = "searching code"
	return tool.NewBuilder(ToolSearchCode).
		WithDescription("Search for code across all of GitHub. Input should be a search query, you can use qualifiers like 'language:python', 'repo:owner/name', 'path:src/', etc. For example: 'def authenticate language:python' or 'class Component repo:facebook/react'").
		ReadOnly().
		WithTags("github", "search").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			results, err := s.api.SearchCode(ctx, input, codeSearchLimit)
			if err != nil {
				return "", tool.Upstream(action, err)
			}

			lines := make([]string, 0, codeSearchLimit)
			for i, r := range results {
				if i == codeSearchLimit {
					break
				}
				lines = append(lines, fmt.Sprintf("%d. %s/%s", i+1, r.GetRepository().GetFullName(), r.GetPath()))
			}
			if len(lines) == 0 {
				return "No results found", nil
			}
			return strings.Join(lines, "\n"), nil
		}).
		MustBuild()
}

func (s *Toolset) listIssuesTool() tool.Tool {
	const action = "listing issues"
	return tool.NewBuilder(ToolListIssues).
		WithDescription("List open issues in a GitHub repository. Input should be the repository name in format 'owner/repo', for example 'microsoft/vscode' or 'facebook/react'. Returns up to 20 most recent open issues.").
		ReadOnly().
		WithTags("github", "issues").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			owner, name, err := s.repoOrDefault(input)
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			issues, err := s.api.ListOpenIssues(ctx, owner, name, issueListLimit)
			if err != nil {
				return "", tool.Upstream(action, err)
			}

			lines := make([]string, 0, issueListLimit)
			for i, issue := range issues {
				if i == issueListLimit {
					break
				}
				lines = append(lines, fmt.Sprintf("#%d: %s (@%s)", issue.GetNumber(), issue.GetTitle(), issue.GetUser().GetLogin()))
			}
			if len(lines) == 0 {
				return "No open issues", nil
			}
			return strings.Join(lines, "\n"), nil
		}).
		MustBuild()
}

func (s *Toolset) getIssueTool() tool.Tool {
	const action = "getting issue"
	return tool.NewBuilder(ToolGetIssue).
		WithDescription("Get detailed information about a specific GitHub issue. Input must be in format 'owner/repo:issue_number', for example 'microsoft/vscode:123' or 'facebook/react:456'").
		ReadOnly().
		WithTags("github", "issues").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			repoName, rawNumber, ok := splitComposite(input)
			if !ok {
				return "", tool.Malformed(msgGetIssueFormat)
			}
			owner, name, err := s.repoOrDefault(repoName)
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			number, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(rawNumber), "#"))
			if err != nil {
				return "", tool.Upstream(action, fmt.Errorf("invalid issue number %q", rawNumber))
			}

			issue, err := s.api.GetIssue(ctx, owner, name, number)
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			return fmt.Sprintf(`Issue #%d: %s
State: %s
Author: @%s
Created: %s
Comments: %d

%s`,
				issue.GetNumber(),
				issue.GetTitle(),
				issue.GetState(),
				issue.GetUser().GetLogin(),
				formatCreated(issue.GetCreatedAt().Time),
				issue.GetComments(),
				orNone(issue.GetBody()),
			), nil
		}).
		MustBuild()
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return "None"
	}
	return t.UTC().Format(createdLayout)
}

func (s *Toolset) listPRsTool() tool.Tool {
	const action = "listing PRs"
	return tool.NewBuilder(ToolListPRs).
		WithDescription("List open pull requests in a GitHub repository. Input should be the repository name in format 'owner/repo', for example 'microsoft/vscode' or 'facebook/react'. Returns up to 20 most recent open pull requests.").
		ReadOnly().
		WithTags("github", "pulls").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			owner, name, err := s.repoOrDefault(input)
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			prs, err := s.api.ListOpenPullRequests(ctx, owner, name, prListLimit)
			if err != nil {
				return "", tool.Upstream(action, err)
			}

			lines := make([]string, 0, prListLimit)
			for i, pr := range prs {
				if i == prListLimit {
					break
				}
				lines = append(lines, fmt.Sprintf("#%d: %s (@%s)", pr.GetNumber(), pr.GetTitle(), pr.GetUser().GetLogin()))
			}
			if len(lines) == 0 {
				return "No open pull requests", nil
			}
			return strings.Join(lines, "\n"), nil
		}).
		MustBuild()
}

func (s *Toolset) searchReposTool() tool.Tool {
	const action = "searching repositories"
	return tool.NewBuilder(ToolSearchRepositories).
		WithDescription("Search for repositories on GitHub. Input should be a search query, you can use qualifiers like 'language:python', 'stars:>1000', 'topic:machine-learning', etc. For example: 'web framework language:python' or 'react stars:>10000'").
		ReadOnly().
		WithTags("github", "search").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			repos, err := s.api.SearchRepositories(ctx, input, repoSearchLimit)
			if err != nil {
				return "", tool.Upstream(action, err)
			}

			lines := make([]string, 0, repoSearchLimit)
			for i, r := range repos {
				if i == repoSearchLimit {
					break
				}
				desc := r.GetDescription()
				if desc == "" {
					desc = "No description"
				}
				lines = append(lines, fmt.Sprintf("%d. %s ⭐%d - %s", i+1, r.GetFullName(), r.GetStargazersCount(), desc))
			}
			if len(lines) == 0 {
				return "No repositories found", nil
			}
			return strings.Join(lines, "\n"), nil
		}).
		MustBuild()
}

// CreateIssueTool opens issues in the toolset's default repository. The
// input is the title, optionally followed by a blank line and the body.
func (s *Toolset) CreateIssueTool() tool.Tool {
	const action = "creating issue"
	return tool.NewBuilder(ToolCreateIssue).
		WithDescription("Create a new issue in the configured GitHub repository. Input is the issue title, optionally followed by a blank line and the issue body, for example 'Login button misaligned\n\nThe button overlaps the footer on mobile.'").
		Mutating().
		WithTags("github", "issues", "write").
		WithHandler(func(ctx context.Context, input string) (string, error) {
			title, body, _ := strings.Cut(input, "\n")
			title = strings.TrimSpace(title)
			if title == "" {
				return "", tool.Malformed("Input must start with an issue title")
			}
			owner, name, err := s.repoOrDefault("")
			if err != nil {
				return "", tool.Upstream(action, err)
			}

			issue, err := s.api.CreateIssue(ctx, owner, name, title, strings.TrimSpace(body))
			if err != nil {
				return "", tool.Upstream(action, err)
			}
			return fmt.Sprintf("Created issue #%d: %s", issue.GetNumber(), issue.GetHTMLURL()), nil
		}).
		MustBuild()
}
