// Package middleware holds the cross-cutting gin middleware of the catalog
// site: CSRF protection for the HTML forms, security headers, and
// SQLite-backed sessions used to carry flash messages across redirects.
package middleware
