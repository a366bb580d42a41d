package handlers

import (
	"net/http"
)

// Route is the operation a request path selects.
type Route int

const (
	RouteUnknown Route = iota
	RouteAuthURL
	RouteTokens
	RouteUpload
	RouteCallback
	RouteHealth
)

// CallbackPath is where Google sends the user back after consent.
const CallbackPath = "/oauth2callback"

var routes = map[string]Route{
	"/getAuthUrl":    RouteAuthURL,
	"/getTokens":     RouteTokens,
	"/uploadToDrive": RouteUpload,
	CallbackPath:     RouteCallback,
	"/health":        RouteHealth,
}

// RouteFor resolves a request path. Matching is exact.
func RouteFor(path string) Route {
	return routes[path]
}

func (r Route) String() string {
	for path, route := range routes {
		if route == r {
			return path
		}
	}
	return "unknown"
}

// ServeHTTP dispatches to the handler of the request's route.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch RouteFor(r.URL.Path) {
	case RouteAuthURL:
		h.GetAuthURL(w, r)
	case RouteTokens:
		h.GetTokens(w, r)
	case RouteUpload:
		h.UploadToDrive(w, r)
	case RouteCallback:
		h.OAuthCallback(w, r)
	case RouteHealth:
		h.HealthCheck(w, r)
	default:
		sendError(w, http.StatusNotFound, "not found")
	}
}

// Routes returns the full HTTP surface: CORS first, then request logging,
// then dispatch.
func (h *Handler) Routes() http.Handler {
	return CORS(h.LogRequests(h))
}
