// Package config provides the cubicfold configuration.
//
// Configuration is layered: built-in defaults, then an optional TOML or
// YAML file, then CUBICFOLD_<SECTION>_<KEY> environment variables. Later
// layers override earlier ones key by key. The merged result is decoded
// into a Config and validated.
package config
