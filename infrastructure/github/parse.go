package github

import (
	"fmt"
	"strings"
)

// splitComposite splits "left:right" on the first delimiter.
func splitComposite(input string) (left, right string, ok bool) {
	return strings.Cut(input, ":")
}

// parseRepo splits "owner/repo" into owner and repo parts.
func parseRepo(fullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(fullName), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected 'owner/repo'", fullName)
	}
	return owner, repo, nil
}

// repoOrDefault falls back to the configured default repository when the
// caller left the repository part empty.
func (s *Toolset) repoOrDefault(name string) (owner, repo string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if s.defaultRepo == "" {
			return "", "", fmt.Errorf("no repository given and no default repository configured")
		}
		name = s.defaultRepo
	}
	return parseRepo(name)
}
