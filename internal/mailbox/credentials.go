// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mailbox

import (
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/jrhoades1/job-application-system/internal/secrets"
	"github.com/jrhoades1/job-application-system/pkg/types"
)

const appPasswordSecret = "gmail-app-password"

// AppPassword resolves the IMAP app password: the environment variable
// named by the config, then the OS keyring, then the secrets directory.
// A missing credential is a configuration error, the only kind of error
// the fetch stage exits non-zero for.
func AppPassword(cfg types.EmailConfig, secretsDir string) (string, error) {
	if cfg.AppPasswordEnv != "" {
		if pw := os.Getenv(cfg.AppPasswordEnv); pw != "" {
			return pw, nil
		}
	}

	if cfg.KeyringService != "" && cfg.Address != "" {
		pw, err := keyring.Get(cfg.KeyringService, cfg.Address)
		if err == nil && pw != "" {
			return pw, nil
		}
	}

	if secretsDir != "" {
		loaded, err := secrets.Load(secretsDir)
		if err == nil {
			if pw := loaded[appPasswordSecret]; pw != "" {
				return pw, nil
			}
		}
	}

	return "", fmt.Errorf("no app password found: set $%s, store it in the %q keyring service, or create %s/%s",
		cfg.AppPasswordEnv, cfg.KeyringService, secretsDir, appPasswordSecret)
}
