package errs

import "errors"

// Exit codes the CLI layer returns, one per error category.
const (
	ExitOK              = 0
	ExitUsage           = 2
	ExitUnknownIssuer   = 3
	ExitTransportOrAuth = 4
	ExitStore           = 5
)

// ExitCode maps an error returned from a command's run path to the process
// exit code that error category should produce. A nil error maps to ExitOK; an
// unrecognized error defaults to ExitTransportOrAuth rather than silently
// succeeding.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var unknownIssuer *UnknownIssuerError
	if errors.As(err, &unknownIssuer) {
		return ExitUnknownIssuer
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		return ExitTransportOrAuth
	}

	var auth *AuthError
	if errors.As(err, &auth) {
		return ExitTransportOrAuth
	}

	var store *StoreError
	if errors.As(err, &store) {
		return ExitStore
	}

	var config *ConfigError
	if errors.As(err, &config) {
		return ExitUsage
	}

	return ExitTransportOrAuth
}
