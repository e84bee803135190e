package config

import (
	_ "embed"
)

//go:embed gobook.toml
var DefaultConfig []byte
