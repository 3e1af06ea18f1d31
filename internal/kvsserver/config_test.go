package kvsserver

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, DefaultDataDir)
	}
	if cfg.Engine.Backend != DefaultBackend {
		t.Errorf("Backend = %q, want %q", cfg.Engine.Backend, DefaultBackend)
	}
	if cfg.Engine.CompactionThreshold != DefaultCompactionThreshold {
		t.Errorf("CompactionThreshold = %d, want %d", cfg.Engine.CompactionThreshold, DefaultCompactionThreshold)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled should default to false")
	}
}

func TestVerify(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"unknown backend", func(c *Config) { c.Engine.Backend = "sqlite" }, true},
		{"badger backend", func(c *Config) { c.Engine.Backend = "badger" }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := Verify(cfg)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
