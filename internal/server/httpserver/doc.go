// Package httpserver provides the admin HTTP server of kvfile-server.
//
// It serves Prometheus metrics, a health check reporting the store's
// state, build information, and an on-demand dump trigger. The data plane
// is the line protocol in package lineserver; nothing here reads or writes
// user keys.
//
//   - server.go: http.Server lifecycle
//   - router.go: Routes and handlers
//   - middleware.go: Request IDs, panic recovery, access logging
package httpserver
