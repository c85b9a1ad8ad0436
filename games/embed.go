// Package games embeds the content shipped with the boneyard binary.
package games

import "embed"

// Default is the directory of the bundled game inside FS.
const Default = "boneyard"

// FS holds every bundled game, one directory each.
//
//go:embed boneyard/*.lua
var FS embed.FS
