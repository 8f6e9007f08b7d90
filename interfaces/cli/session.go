package cli

import (
	"context"
	"fmt"

	domainconfig "github.com/felixgeelhaar/agent-squad/domain/config"
	"github.com/felixgeelhaar/agent-squad/domain/credential"
	"github.com/felixgeelhaar/agent-squad/domain/tool"
	infraconfig "github.com/felixgeelhaar/agent-squad/infrastructure/config"
	"github.com/felixgeelhaar/agent-squad/infrastructure/github"
	"github.com/felixgeelhaar/agent-squad/infrastructure/logging"
	"github.com/felixgeelhaar/agent-squad/infrastructure/observability"
	"github.com/felixgeelhaar/agent-squad/infrastructure/planner"
	"github.com/felixgeelhaar/agent-squad/infrastructure/resilience"
)

// session is the wiring shared by commands: configuration, telemetry and
// the tool catalog.
type session struct {
	config    *domainconfig.SquadConfig
	source    credential.Source
	builder   *github.CatalogBuilder
	catalog   *tool.Catalog
	telemetry *observability.Provider
}

// loadConfig reads --config, or the built-in squad when none is given.
func (a *App) loadConfig() (*domainconfig.SquadConfig, error) {
	loader := infraconfig.NewLoaderWithOptions(
		infraconfig.WithLookup(infraconfig.LookupFunc(a.lookup)),
	)
	if a.global.configPath == "" {
		return loader.LoadDefault()
	}
	cfg, err := loader.LoadFile(a.global.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// initLogging configures the default logger. Flags win over the file.
func (a *App) initLogging(cfg *domainconfig.SquadConfig) {
	lc := logging.DefaultConfig()
	lc.Output = a.stderr
	if cfg != nil {
		lc.Level = cfg.Logging.Level
		lc.Format = cfg.Logging.Format
	}
	if a.global.logLevel != "" {
		lc.Level = a.global.logLevel
	}
	if a.global.logFormat != "" {
		lc.Format = a.global.logFormat
	}
	logging.Init(lc)
}

// credentialLookup layers a repository override over the configured
// credentials.
func (a *App) credentialLookup(cfg *domainconfig.SquadConfig, repository string) credential.LookupFunc {
	lookup := infraconfig.CredentialLookup(cfg.GitHub, a.lookup)
	if repository != "" {
		lookup = credential.Chain(
			credential.MapLookup(map[string]string{credential.KeyRepository: repository}),
			lookup,
		)
	}
	return lookup
}

// open loads configuration and builds the traced tool catalog.
func (a *App) open(ctx context.Context, repository string) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	a.initLogging(cfg)

	tel, err := observability.New(telemetryOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	lookup := a.credentialLookup(cfg, repository)
	src := credential.Resolve(lookup)

	opts := []github.BuilderOption{
		github.WithClientConfig(github.ClientConfig{BaseURL: cfg.GitHub.BaseURL}),
	}
	if app, ok := credential.App(lookup); ok && src.Kind() == credential.KindPersonalAccessToken {
		opts = append(opts, github.WithAppFallback(app))
	}
	opts = append(opts, a.catalogOpts...)

	builder := github.NewCatalogBuilder(opts...)
	catalog := builder.Build(ctx, src).Map(tel.TraceTools())

	return &session{
		config:    cfg,
		source:    src,
		builder:   builder,
		catalog:   catalog,
		telemetry: tel,
	}, nil
}

// close flushes telemetry.
func (s *session) close(ctx context.Context) {
	if err := s.telemetry.Shutdown(ctx); err != nil {
		logging.Warn().
			Add(logging.Component("telemetry")).
			Add(logging.ErrorField(err)).
			Msg("shutdown failed")
	}
}

// chatProvider builds the chat model: OpenAI unless replaced, then fortify
// resilience, then tracing.
func (a *App) chatProvider(s *session) (planner.Provider, error) {
	base := a.provider
	if base == nil {
		llm := s.config.LLM
		if llm.APIKey == "" {
			return nil, domainconfig.ErrMissingAPIKey
		}
		base = planner.NewOpenAIProvider(planner.OpenAIConfig{
			APIKey:      llm.APIKey,
			BaseURL:     llm.BaseURL,
			Model:       llm.Model,
			Temperature: llm.Temperature,
			MaxTokens:   llm.MaxTokens,
			Timeout:     llm.Timeout.Duration(),
		})
	}
	wrapped := resilience.Wrap(base, resilienceConfig(s.config.Resilience))
	return s.telemetry.TraceProvider(wrapped), nil
}

func resilienceConfig(rc domainconfig.ResilienceConfig) resilience.Config {
	cfg := resilience.DefaultConfig()
	if rc.Timeout > 0 {
		cfg.Timeout = rc.Timeout.Duration()
	}
	cfg.RetryEnabled = rc.Retry.Enabled
	if rc.Retry.MaxAttempts > 0 {
		cfg.RetryMaxAttempts = rc.Retry.MaxAttempts
	}
	if rc.Retry.InitialDelay > 0 {
		cfg.RetryInitialDelay = rc.Retry.InitialDelay.Duration()
	}
	if rc.Retry.Multiplier > 0 {
		cfg.RetryBackoffMultiplier = rc.Retry.Multiplier
	}
	cfg.CircuitBreakerEnabled = rc.CircuitBreaker.Enabled
	if rc.CircuitBreaker.Threshold > 0 {
		cfg.CircuitBreakerThreshold = rc.CircuitBreaker.Threshold
	}
	if rc.CircuitBreaker.Timeout > 0 {
		cfg.CircuitBreakerTimeout = rc.CircuitBreaker.Timeout.Duration()
	}
	return cfg
}

func telemetryOptions(cfg *domainconfig.SquadConfig) []observability.Option {
	opts := []observability.Option{
		observability.WithServiceName("agent-squad"),
		observability.WithServiceVersion(Version),
		observability.WithExporter(observability.ExporterType(cfg.Tracing.Exporter), cfg.Tracing.Endpoint),
		observability.WithSampleRate(cfg.Tracing.SampleRate),
	}
	if cfg.Tracing.Insecure {
		opts = append(opts, observability.WithInsecure())
	}
	return opts
}
