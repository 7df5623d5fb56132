package config

import "os"

// APIKeySource represents where a credential's value came from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of a credential, for the CLI's
// diagnostic output. `edinet search-static` must keep working with the
// credential unset, but every other EDINET command wants a
// clear answer to "why did this just fail with an auth error".
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "sk-...abc"
}

// CheckEdinetAPIKey reports the status of the one credential fast10k
// requires.
func CheckEdinetAPIKey(cfg *Config) KeyStatus {
	return checkKey("EDINET API Key", cfg.EdinetAPIKey, "FAST10K_EDINET_API_KEY")
}

func checkKey(name, value, envVar string) KeyStatus {
	status := KeyStatus{
		Name:  name,
		IsSet: value != "",
	}

	if value != "" {
		if os.Getenv(envVar) != "" {
			status.Source = KeySourceEnv
		} else {
			status.Source = KeySourceConfig
		}
		status.Masked = maskKey(value)
	} else {
		status.Source = KeySourceNone
	}

	return status
}

// maskKey masks a credential for display, showing only the first and last
// three characters.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
