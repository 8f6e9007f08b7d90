package credential

import (
	"os"
	"strings"
)

// LookupFunc reads a configuration value, reporting whether it was present.
type LookupFunc func(key string) (string, bool)

// EnvLookup reads from the process environment.
func EnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapLookup reads from a fixed map.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// Chain returns a lookup that consults each lookup in order and returns the
// first non-empty value.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(key); ok && strings.TrimSpace(v) != "" {
				return v, true
			}
		}
		return "", false
	}
}

// Resolve selects the credential source with fixed priority: a personal
// access token, then complete app credentials, then None. It performs no
// network validation.
func Resolve(lookup LookupFunc) Source {
	if lookup == nil {
		return None{}
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	repository := get(KeyRepository)

	if token := get(KeyToken); token != "" {
		return PersonalAccessToken{Token: token, Repository: repository}
	}

	appID := get(KeyAppID)
	privateKey := get(KeyAppPrivateKey)
	if appID != "" && privateKey != "" && repository != "" {
		return AppCredentials{AppID: appID, PrivateKey: privateKey, Repository: repository}
	}

	return None{}
}

// App returns the app credentials available through lookup, if complete.
// It is used to fall back to the app path when a token is present but
// rejected.
func App(lookup LookupFunc) (AppCredentials, bool) {
	if lookup == nil {
		return AppCredentials{}, false
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	app := AppCredentials{
		AppID:      get(KeyAppID),
		PrivateKey: get(KeyAppPrivateKey),
		Repository: get(KeyRepository),
	}
	if app.AppID == "" || app.PrivateKey == "" || app.Repository == "" {
		return AppCredentials{}, false
	}
	return app, true
}
