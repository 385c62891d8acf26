package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sportops/sportops/observe"
	"github.com/sportops/sportops/sports"
)

// Fetcher serves one normalized query, from cache or upstream.
// fetch.Orchestrator satisfies this.
type Fetcher interface {
	Fetch(ctx context.Context, family sports.Family, params map[string]string) ([]byte, error)
}

// Config configures the Service.
type Config struct {
	// Fetcher serves validated queries. Required.
	Fetcher Fetcher

	// Middleware optionally wraps every query with tracing, metrics, and
	// logging.
	Middleware *observe.Middleware
}

// Service is the structured query surface over the fetch layer. All methods
// are safe for concurrent use.
type Service struct {
	exec observe.ExecuteFunc
}

// NewService creates a Service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("tools: fetcher is required")
	}

	exec := observe.ExecuteFunc(func(ctx context.Context, meta observe.QueryMeta, p map[string]string) (any, error) {
		return cfg.Fetcher.Fetch(ctx, sports.Family(meta.Family), p)
	})
	if cfg.Middleware != nil {
		exec = cfg.Middleware.Wrap(exec)
	}
	return &Service{exec: exec}, nil
}

// run executes one validated query and decodes the response envelope.
func (s *Service) run(ctx context.Context, tool string, family sports.Family, p params) (*sports.Envelope, error) {
	meta := observe.QueryMeta{Tool: tool, Family: family.String()}
	res, err := s.exec(ctx, meta, p)
	if err != nil {
		return nil, err
	}

	raw, ok := res.([]byte)
	if !ok {
		return nil, fmt.Errorf("tools: %s returned %T, want []byte", tool, res)
	}
	var env sports.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("tools: decode %s envelope: %w", family, err)
	}
	return &env, nil
}

// decodeList unmarshals the envelope's response list. An empty or absent
// response decodes to a nil slice, not an error.
func decodeList[T any](env *sports.Envelope, family sports.Family) ([]T, error) {
	if len(env.Response) == 0 {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(env.Response, &out); err != nil {
		return nil, fmt.Errorf("tools: decode %s response: %w", family, err)
	}
	return out, nil
}

// decodeObject unmarshals an envelope whose response is a single object
// rather than a list. Reports found=false when the response is empty, which
// the upstream uses to mean "no data for this selection".
func decodeObject[T any](env *sports.Envelope, family sports.Family) (T, bool, error) {
	var out T
	raw := string(env.Response)
	if len(env.Response) == 0 || raw == "[]" || raw == "{}" || raw == "null" {
		return out, false, nil
	}
	if err := json.Unmarshal(env.Response, &out); err != nil {
		return out, false, fmt.Errorf("tools: decode %s response: %w", family, err)
	}
	return out, true, nil
}
