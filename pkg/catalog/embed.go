package catalog

import (
	"embed"
	"io/fs"
)

//go:embed types/*.yaml
var embeddedTypes embed.FS

// EmbeddedFS returns the bundled product-type definitions.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTypes, "types")
	if err != nil {
		// The embed directive guarantees the subpath exists, so panic is
		// acceptable here.
		panic(err)
	}
	return sub
}
