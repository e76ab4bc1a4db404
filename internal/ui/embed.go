package ui

import "embed"

// StaticFS holds the dashboard stylesheet and icon, served under /static/.
//
//go:embed static
var StaticFS embed.FS
