package middleware

import (
	"os"
	"strings"

	"gymdash-api/pkg/appenv"

	"github.com/gin-gonic/gin"
)

// allowedOriginSet parses the comma-separated ALLOWED_ORIGINS env var.
// A nil set means no browser origin is allowed in production.
func allowedOriginSet() map[string]struct{} {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, o := range strings.Split(raw, ",") {
		origin := strings.TrimSpace(o)
		if origin != "" {
			set[origin] = struct{}{}
		}
	}
	return set
}

// OriginAllowed reports whether a browser Origin may talk to the API.
// Outside production any origin is accepted; in production the origin must
// appear in ALLOWED_ORIGINS. Shared by the CORS layer and the websocket
// upgrade check.
func OriginAllowed(origin string) bool {
	if !(appenv.IsProduction() || gin.Mode() == gin.ReleaseMode) {
		return true
	}
	_, ok := allowedOriginSet()[origin]
	return ok
}
