package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const apiTokenFile = "api_token"

// GetAPIToken returns the bearer token protecting the loopback admin API.
// Resolution order: FEEDBOT_API_TOKEN env var, then a token file in the
// data directory. On first run a random token is generated and persisted
// so the CLI and server agree across restarts.
func GetAPIToken(dataDir string) (string, error) {
	if v := strings.TrimSpace(os.Getenv("FEEDBOT_API_TOKEN")); v != "" {
		return v, nil
	}

	path := filepath.Join(dataDir, apiTokenFile)
	if data, err := os.ReadFile(path); err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token, nil
		}
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating API token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing API token file: %w", err)
	}
	return token, nil
}
