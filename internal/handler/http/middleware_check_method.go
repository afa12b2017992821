// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod is registered as the router's MethodNotAllowed handler. It
// answers 404 instead of 405 when the matched route does not serve the
// requested method, so unsupported methods do not reveal the route.
//
// Only exact pattern matches against the request path are considered.
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var found chi.Route
		for _, route := range allRoutes(router.Routes(), "") {
			if route.Pattern == r.URL.Path {
				found = route
				break
			}
		}

		if _, ok := found.Handlers[r.Method]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}

// allRoutes flattens sub-routers into full patterns.
func allRoutes(routes []chi.Route, prefix string) []chi.Route {
	var out []chi.Route
	for _, route := range routes {
		pattern := prefix + route.Pattern
		if route.SubRoutes != nil {
			out = append(out, allRoutes(route.SubRoutes.Routes(), strings.TrimSuffix(pattern, "/*"))...)
			continue
		}
		out = append(out, chi.Route{Pattern: pattern, Handlers: route.Handlers})
	}
	return out
}
