package kvsserver

import "errors"

// Verify validates a loaded configuration.
func Verify(cfg *Config) error {
	if cfg.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	switch cfg.Engine.Backend {
	case "core", "badger":
	default:
		return errors.New("engine.backend must be \"core\" or \"badger\"")
	}

	return nil
}
