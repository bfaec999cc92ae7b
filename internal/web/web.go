package web

import "embed"

// Templates holds the two HTML surfaces: the anonymous login screen
// and the authenticated chat screen.
//
//go:embed templates/*.html
var Templates embed.FS
