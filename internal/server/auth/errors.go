package auth

import (
	"errors"
	"strings"
)

// ErrAuthentication is returned for every credential or token failure:
// unknown email, wrong password, malformed/tampered/expired token, revoked
// token, deleted user. The causes are logged server-side but deliberately
// collapsed into one error so callers cannot enumerate accounts or probe
// token state.
var ErrAuthentication = errors.New("please authenticate")

// ValidationError reports invalid or conflicting user input. Violations
// holds one human-readable reason per failing field; every field is checked
// before the error is returned, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}
