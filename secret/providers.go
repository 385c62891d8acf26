package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider resolves references against the process environment.
type EnvProvider struct{}

// NewEnvProvider creates an environment-backed provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

func (p *EnvProvider) Name() string { return "env" }

func (p *EnvProvider) Resolve(ctx context.Context, ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("environment variable %q is not set", ref)
	}
	return value, nil
}

// FileProvider resolves references as file paths, for Docker and Kubernetes
// mounted secrets. Trailing whitespace is trimmed so a newline-terminated
// secret file does not corrupt the credential.
type FileProvider struct{}

// NewFileProvider creates a file-backed provider.
func NewFileProvider() *FileProvider {
	return &FileProvider{}
}

func (p *FileProvider) Name() string { return "file" }

func (p *FileProvider) Resolve(ctx context.Context, ref string) (string, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}
	return strings.TrimRight(string(data), " \t\r\n"), nil
}
