package secret

import (
	"context"
	"fmt"
	"strings"
)

// refPrefix marks a configuration value as a reference to a secret rather
// than the secret itself.
const refPrefix = "secretref:"

// Provider fetches one secret by reference. Implementations must be safe
// for concurrent use and must never log resolved values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
}

// ParseRef splits a "secretref:<provider>:<ref>" value. ok is false when
// the value is not a reference or leaves either part empty.
func ParseRef(value string) (provider, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, refPrefix)
	if !found {
		return "", "", false
	}
	provider, ref, found = strings.Cut(rest, ":")
	if !found || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}

// Resolver turns a configuration value into a credential. Plain values go
// through strict environment expansion; "secretref:" values are handed to
// the named provider. The service carries a single secret, the upstream
// API key, so resolution works value by value.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver builds a Resolver over the given providers. With strict set,
// a provider handing back an empty string is an error; an empty credential
// would otherwise surface as a 401 on the first upstream call.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{
		providers: make(map[string]Provider, len(providers)),
		strict:    strict,
	}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Resolve expands value and, when the result is a secret reference,
// fetches it from the named provider.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnv(value)
	if err != nil {
		return "", err
	}

	name, ref, ok := ParseRef(expanded)
	if !ok {
		return expanded, nil
	}

	provider := r.providers[name]
	if provider == nil {
		return "", fmt.Errorf("secret: no provider named %q", name)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("secret: %s:%s: %w", name, ref, err)
	}
	if r.strict && resolved == "" {
		return "", fmt.Errorf("secret: provider %q resolved %q to an empty value", name, ref)
	}
	return resolved, nil
}
