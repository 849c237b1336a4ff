package app

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/nimbuzyn/nimbuzyn/pkg/jwtx"
)

const sessionKeyLength = 32

// initSessionSigner builds the session token signer. With a key file
// configured the key is loaded, or generated and persisted on first run, so
// sessions survive restarts. Without one the key is ephemeral and every
// restart logs the user out.
func initSessionSigner(cfg Config) (*jwtx.SessionSigner, error) {
	if cfg.SessionKeyFile == "" {
		return jwtx.NewEphemeralSessionSigner(cfg.Issuer, cfg.SessionTTL)
	}

	key, err := os.ReadFile(cfg.SessionKeyFile)
	if os.IsNotExist(err) {
		key = make([]byte, sessionKeyLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
		if err := os.WriteFile(cfg.SessionKeyFile, key, 0o600); err != nil {
			return nil, fmt.Errorf("persist session key: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("read session key: %w", err)
	}

	if len(key) < sessionKeyLength {
		return nil, fmt.Errorf("session key file %s is too short", cfg.SessionKeyFile)
	}
	return jwtx.NewSessionSigner(key, cfg.Issuer, cfg.SessionTTL), nil
}
