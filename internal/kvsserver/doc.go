// Package kvsserver provides configuration and engine selection for
// kvs-server, the optional process that keeps a database open and
// exposes no network listener of its own (see cmd/kvs-server).
//
//   - config.go: Config struct and defaults
//   - verify.go: configuration validation
//   - engine.go: backend selection (core engine vs. Badger)
package kvsserver
