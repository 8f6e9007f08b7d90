package github

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/felixgeelhaar/agent-squad/domain/credential"
)

// App JWT validity. GitHub rejects app tokens living longer than ten minutes,
// and iat is backdated to absorb clock drift.
const (
	appJWTBackdate = 60 * time.Second
	appJWTLifetime = 9 * time.Minute
)

// ErrInvalidAppID indicates the app id is not numeric.
var ErrInvalidAppID = errors.New("invalid GitHub App id")

// loadPrivateKey returns the PEM-encoded key. The value is used directly when
// it contains a PEM header and read from disk otherwise. Escaped newlines from
// single-line environment values are restored.
func loadPrivateKey(value string) ([]byte, error) {
	if strings.Contains(value, "BEGIN") {
		return []byte(strings.ReplaceAll(value, `\n`, "\n")), nil
	}
	data, err := os.ReadFile(value)
	if err != nil {
		return nil, fmt.Errorf("read GitHub App private key: %w", err)
	}
	return data, nil
}

// parsePrivateKey decodes an RSA private key in PEM form.
func parsePrivateKey(value string) (*rsa.PrivateKey, error) {
	pem, err := loadPrivateKey(value)
	if err != nil {
		return nil, err
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse GitHub App private key: %w", err)
	}
	return key, nil
}

// signAppJWT creates the RS256 token an app uses to call the Apps API.
func signAppJWT(appID string, key *rsa.PrivateKey, now time.Time) (string, error) {
	if _, err := strconv.ParseInt(appID, 10, 64); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAppID, appID)
	}
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
		Issuer:    appID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign GitHub App JWT: %w", err)
	}
	return signed, nil
}

// InstallationToken exchanges app credentials for an installation access
// token scoped to the app's installation on the configured repository.
func InstallationToken(ctx context.Context, app credential.AppCredentials, cfg ClientConfig) (string, error) {
	owner, repo, err := parseRepo(app.Repository)
	if err != nil {
		return "", err
	}
	key, err := parsePrivateKey(app.PrivateKey)
	if err != nil {
		return "", err
	}
	signed, err := signAppJWT(app.AppID, key, time.Now())
	if err != nil {
		return "", err
	}

	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: signed})
	appClient := gh.NewClient(oauth2.NewClient(ctx, ts))
	if err := setBaseURL(appClient, cfg.BaseURL); err != nil {
		return "", err
	}

	installation, _, err := appClient.Apps.FindRepositoryInstallation(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("find installation for %s: %w", app.Repository, err)
	}
	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installation.GetID(), nil)
	if err != nil {
		return "", fmt.Errorf("create installation token: %w", err)
	}
	if token.GetToken() == "" {
		return "", fmt.Errorf("create installation token: empty token")
	}
	return token.GetToken(), nil
}

// NewAppClient authenticates as the app installation on app.Repository.
func NewAppClient(ctx context.Context, app credential.AppCredentials, cfg ClientConfig) (*Client, error) {
	token, err := InstallationToken(ctx, app, cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, token, cfg)
}
