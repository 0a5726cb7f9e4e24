// Package file provides the TOML file implementation of driven.ConfigStore.
//
// Values are addressed by dot-notation keys ("store.backend") and written
// back as nested tables:
//
//	[store]
//	backend = "sqlite"
package file
