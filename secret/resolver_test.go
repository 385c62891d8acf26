package secret

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubProvider struct {
	name    string
	values  map[string]string
	resolve func(ref string) (string, error)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Resolve(_ context.Context, ref string) (string, error) {
	if s.resolve != nil {
		return s.resolve(ref)
	}
	return s.values[ref], nil
}

func TestParseRef(t *testing.T) {
	provider, ref, ok := ParseRef("secretref:env:API_SPORTS_KEY")
	if !ok {
		t.Fatal("expected the reference to parse")
	}
	if provider != "env" || ref != "API_SPORTS_KEY" {
		t.Fatalf("ParseRef = %q %q, want env API_SPORTS_KEY", provider, ref)
	}

	for _, bad := range []string{"8f42c1d9", "secretref:env", "secretref:env:", "secretref::ref"} {
		if _, _, ok := ParseRef(bad); ok {
			t.Errorf("ParseRef(%q) ok = true, want false", bad)
		}
	}
}

func TestResolver_FullRef(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{"alpha": "one"}})

	got, err := r.Resolve(context.Background(), "secretref:stub:alpha")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "one" {
		t.Errorf("Resolve = %q, want one", got)
	}
}

func TestResolver_PlainValueExpands(t *testing.T) {
	t.Setenv("SPORTOPS_TEST_KEY", "8f42c1d9")

	r := NewResolver(true)
	got, err := r.Resolve(context.Background(), "${SPORTOPS_TEST_KEY}")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "8f42c1d9" {
		t.Errorf("Resolve = %q, want the expanded variable", got)
	}
}

func TestResolver_UnknownProvider(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub"})

	_, err := r.Resolve(context.Background(), "secretref:vault:alpha")
	if err == nil {
		t.Fatal("resolving through an unregistered provider should fail")
	}
	if !strings.Contains(err.Error(), "vault") {
		t.Errorf("error %q should name the missing provider", err)
	}
}

func TestResolver_StrictRejectsEmptyValue(t *testing.T) {
	r := NewResolver(true, &stubProvider{name: "stub", values: map[string]string{"empty": ""}})

	if _, err := r.Resolve(context.Background(), "secretref:stub:empty"); err == nil {
		t.Fatal("a strict resolver should reject an empty credential")
	}
}

func TestResolver_ProviderErrorPropagates(t *testing.T) {
	boom := errors.New("backend unreachable")
	r := NewResolver(true, &stubProvider{name: "stub", resolve: func(string) (string, error) {
		return "", boom
	}})

	_, err := r.Resolve(context.Background(), "secretref:stub:alpha")
	if !errors.Is(err, boom) {
		t.Fatalf("Resolve error = %v, want the provider failure wrapped", err)
	}
}
