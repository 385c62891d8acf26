package fetch_test

import (
	"context"
	"fmt"

	"github.com/sportops/sportops/cache"
	"github.com/sportops/sportops/fetch"
	"github.com/sportops/sportops/quota"
	"github.com/sportops/sportops/sports"
)

// staticUpstream stands in for sports.Client in examples.
type staticUpstream struct{}

func (staticUpstream) Fetch(ctx context.Context, family sports.Family, params map[string]string) ([]byte, error) {
	return []byte(`{"response":[]}`), nil
}

func Example() {
	orch, err := fetch.New(fetch.Config{
		Upstream: staticUpstream{},
		Limiter:  quota.NewLimiter(quota.Config{PerMinute: 30, PerDay: 100}),
		Store:    cache.NewMemoryStore(1000),
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	payload, err := orch.Fetch(context.Background(), sports.FamilyTeams, map[string]string{"search": "arsenal"})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(string(payload))
	// Output:
	// {"response":[]}
}
