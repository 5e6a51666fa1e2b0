// Package appfs embeds non-Go assets needed at runtime: SQL migrations and email templates.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
