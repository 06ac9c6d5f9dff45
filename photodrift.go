package photodrift

import (
	_ "embed"
)

// Version is stamped from the VERSION file at build time.
//
//go:embed VERSION
var Version string

// DefaultConfig is written out by `photodrift --installconfig`.
//
//go:embed photodrift.json
var DefaultConfig string
