package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/agent-squad/domain/credential"
	"github.com/felixgeelhaar/agent-squad/domain/tool"
	"github.com/felixgeelhaar/agent-squad/infrastructure/logging"
	"github.com/felixgeelhaar/agent-squad/infrastructure/statemachine"
)

// TokenClientFunc creates an API client from a token.
type TokenClientFunc func(ctx context.Context, token string) (API, error)

// AppClientFunc creates an API client authenticated as an app installation.
type AppClientFunc func(ctx context.Context, app credential.AppCredentials) (API, error)

// CatalogBuilder turns a credential source into a tool catalog. Construction
// never fails: any problem is logged and yields an empty catalog.
type CatalogBuilder struct {
	tokenClient TokenClientFunc
	appClient   AppClientFunc
	fallback    *credential.AppCredentials

	mu        sync.Mutex
	lifecycle *statemachine.Lifecycle
}

// BuilderOption configures a CatalogBuilder.
type BuilderOption func(*CatalogBuilder)

// WithClientConfig points both client factories at cfg.
func WithClientConfig(cfg ClientConfig) BuilderOption {
	return func(b *CatalogBuilder) {
		b.tokenClient = func(ctx context.Context, token string) (API, error) {
			return NewClient(ctx, token, cfg)
		}
		b.appClient = func(ctx context.Context, app credential.AppCredentials) (API, error) {
			return NewAppClient(ctx, app, cfg)
		}
	}
}

// WithTokenClient overrides the token client factory.
func WithTokenClient(fn TokenClientFunc) BuilderOption {
	return func(b *CatalogBuilder) {
		b.tokenClient = fn
	}
}

// WithAppClient overrides the app client factory.
func WithAppClient(fn AppClientFunc) BuilderOption {
	return func(b *CatalogBuilder) {
		b.appClient = fn
	}
}

// WithAppFallback makes a rejected token fall through to app credentials.
func WithAppFallback(app credential.AppCredentials) BuilderOption {
	return func(b *CatalogBuilder) {
		b.fallback = &app
	}
}

// NewCatalogBuilder creates a builder talking to api.github.com by default.
func NewCatalogBuilder(opts ...BuilderOption) *CatalogBuilder {
	b := &CatalogBuilder{}
	WithClientConfig(ClientConfig{})(b)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the lifecycle state of the most recent Build.
func (b *CatalogBuilder) State() statemachine.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lifecycle == nil {
		return statemachine.StateUnresolved
	}
	return b.lifecycle.State()
}

// Build constructs the catalog for src.
func (b *CatalogBuilder) Build(ctx context.Context, src credential.Source) *tool.Catalog {
	lc, err := statemachine.NewLifecycle()
	if err != nil {
		logging.Error().
			Add(logging.Component("github")).
			Add(logging.ErrorField(err)).
			Msg("catalog lifecycle unavailable")
		return tool.EmptyCatalog()
	}
	b.mu.Lock()
	b.lifecycle = lc
	b.mu.Unlock()

	catalog, kind, err := b.build(ctx, src)
	if err != nil && b.fallback != nil && kind == credential.KindPersonalAccessToken {
		logging.Warn().
			Add(logging.Component("github")).
			Add(logging.ErrorField(err)).
			Msg("token rejected, trying GitHub App credentials")
		catalog, kind, err = b.build(ctx, *b.fallback)
	}

	switch {
	case kind == credential.KindNone:
		_ = lc.NoCredentials()
		logging.Warn().
			Add(logging.Component("github")).
			Msg("no GitHub credentials configured, tools disabled")
		return tool.EmptyCatalog()
	case err != nil:
		_ = lc.Rejected(string(kind), err.Error())
		logging.Warn().
			Add(logging.Component("github")).
			Add(logging.CredentialKind(string(kind))).
			Add(logging.ErrorField(err)).
			Msg("GitHub tools unavailable")
		return tool.EmptyCatalog()
	default:
		_ = lc.Authenticated(string(kind), catalog.Len())
		logging.Info().
			Add(logging.Component("github")).
			Add(logging.CredentialKind(string(kind))).
			Add(logging.Count(catalog.Len())).
			Msg("GitHub tools ready")
		return catalog
	}
}

func (b *CatalogBuilder) build(ctx context.Context, src credential.Source) (*tool.Catalog, credential.Kind, error) {
	switch s := src.(type) {
	case credential.PersonalAccessToken:
		catalog, err := b.fromToken(ctx, s)
		return catalog, s.Kind(), err
	case credential.AppCredentials:
		catalog, err := b.fromApp(ctx, s)
		return catalog, s.Kind(), err
	default:
		return nil, credential.KindNone, nil
	}
}

func (b *CatalogBuilder) fromToken(ctx context.Context, src credential.PersonalAccessToken) (*tool.Catalog, error) {
	api, err := b.tokenClient(ctx, src.Token)
	if err != nil {
		return nil, fmt.Errorf("create GitHub client: %w", err)
	}
	user, err := api.AuthenticatedUser(ctx)
	if err != nil {
		return nil, &tool.Error{Kind: tool.KindAuthentication, Action: "authenticating", Err: err}
	}
	logging.Debug().
		Add(logging.Component("github")).
		Add(logging.Str("login", user.GetLogin())).
		Msg("authenticated with token")

	return tool.NewCatalog(NewToolset(api, src.Repository).ReadTools()...)
}

func (b *CatalogBuilder) fromApp(ctx context.Context, src credential.AppCredentials) (*tool.Catalog, error) {
	api, err := b.appClient(ctx, src)
	if err != nil {
		return nil, &tool.Error{Kind: tool.KindAuthentication, Action: "authenticating app", Err: err}
	}
	ts := NewToolset(api, src.Repository)
	return tool.NewCatalog(append(ts.ReadTools(), ts.CreateIssueTool())...)
}
