package github

import "testing"

func TestParseRepo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		owner   string
		repo    string
		wantErr bool
	}{
		{"octocat/Hello-World", "octocat", "Hello-World", false},
		{" octocat/Hello-World ", "octocat", "Hello-World", false},
		{"octocat", "", "", true},
		{"/repo", "", "", true},
		{"owner/", "", "", true},
		{"a/b/c", "", "", true},
	}

	for _, tt := range tests {
		owner, repo, err := parseRepo(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRepo(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("parseRepo(%q) = %q, %q", tt.input, owner, repo)
		}
	}
}

func TestSplitComposite(t *testing.T) {
	t.Parallel()

	left, right, ok := splitComposite("a/b:src/x:y.go")
	if !ok || left != "a/b" || right != "src/x:y.go" {
		t.Errorf("splitComposite() = %q, %q, %v", left, right, ok)
	}
	if _, _, ok := splitComposite("a/b"); ok {
		t.Error("splitComposite without delimiter should report false")
	}
}
