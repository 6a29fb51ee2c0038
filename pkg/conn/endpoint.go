package conn

import (
	"fmt"
	"net/url"
	"strings"
)

// EndpointURL builds the per-client WebSocket URL: base + "/" + clientID,
// with model passed through as the "model" query parameter. http and https
// bases are rewritten to ws and wss.
func EndpointURL(base, clientID, model string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", base, err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server url %q: scheme must be ws or wss", base)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid server url %q: missing host", base)
	}

	if clientID != "" {
		u.Path = strings.TrimRight(u.Path, "/") + "/" + clientID
		u.RawPath = ""
	}

	if model != "" {
		q := u.Query()
		q.Set("model", model)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}
