// Package templates holds the dashboard page templates.
package templates

import "embed"

// FS contains every page template, addressed by file name
//
//go:embed *.html
var FS embed.FS
