// Package credential models the GitHub credential sources a tool catalog can
// be built from.
package credential

// Environment keys consulted by Resolve.
const (
	KeyToken         = "GITHUB_TOKEN"
	KeyRepository    = "GITHUB_REPOSITORY"
	KeyAppID         = "GITHUB_APP_ID"
	KeyAppPrivateKey = "GITHUB_APP_PRIVATE_KEY"
)

// Kind identifies the variant of a Source.
type Kind string

const (
	KindPersonalAccessToken Kind = "personal_access_token"
	KindApp                 Kind = "app"
	KindNone                Kind = "none"
)

// Source is a resolved credential configuration. The set of implementations
// is closed: PersonalAccessToken, AppCredentials and None.
type Source interface {
	Kind() Kind
	sealed()
}

// PersonalAccessToken authenticates with a user token.
type PersonalAccessToken struct {
	Token string
	// Repository is the optional default "owner/repo".
	Repository string
}

// Kind implements Source.
func (PersonalAccessToken) Kind() Kind { return KindPersonalAccessToken }
func (PersonalAccessToken) sealed()    {}

// AppCredentials authenticates as a GitHub App installed on Repository.
type AppCredentials struct {
	AppID string
	// PrivateKey is the PEM-encoded key or a path to a PEM file.
	PrivateKey string
	Repository string
}

// Kind implements Source.
func (AppCredentials) Kind() Kind { return KindApp }
func (AppCredentials) sealed()    {}

// None means no credentials were configured.
type None struct{}

// Kind implements Source.
func (None) Kind() Kind { return KindNone }
func (None) sealed()    {}

// Redact masks a secret for display, keeping its last four characters.
func Redact(secret string) string {
	if secret == "" {
		return "Not set"
	}
	if len(secret) <= 4 {
		return "**********"
	}
	return "**********" + secret[len(secret)-4:]
}
