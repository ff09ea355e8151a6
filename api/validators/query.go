package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
)

// RequireQueryString returns the trimmed query parameter or a validation error
// when it is absent.
func RequireQueryString(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
