package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicPaths never need a token. The parse and graph endpoints only
// transform the request body and store nothing.
var publicPaths = map[string]bool{
	"/health":           true,
	"/health/db":        true,
	"/api/v1/spl/parse": true,
	"/api/v1/spl/graph": true,
}

// AuthSkipper returns true for requests that may skip authentication:
// public paths and every read-only request.
func AuthSkipper(c echo.Context) bool {
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether path is served without authentication for
// every method.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
