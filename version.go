package smoothtft

import (
	_ "embed"
)

//go:embed VERSION
var Version string

//go:embed smoothtft.toml
var DefaultConfig string
