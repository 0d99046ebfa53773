package config

import (
	"os"
	"path/filepath"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"DB_PATH", "API_PORT", "TOKENIZER", "LOG_LEVEL", "LOG_FORMAT", "PAGE_SIZE",
}

func withCleanEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string)
	for _, key := range envVars {
		original[key] = os.Getenv(key)
		unsetEnv(key)
	}
	t.Cleanup(func() {
		for key, value := range original {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	withCleanEnv(t)

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "defaults",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "blog.db"))
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "9000" &&
					cfg.Tokenizer == TokenizerKagome &&
					cfg.LogLevel == "info" &&
					cfg.LogFormat == "text" &&
					cfg.PageSize == 30
			},
		},
		{
			name: "explicit values",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "blog.db"))
				setEnv("API_PORT", "8080")
				setEnv("TOKENIZER", TokenizerTrigram)
				setEnv("LOG_LEVEL", "debug")
				setEnv("LOG_FORMAT", "json")
				setEnv("PAGE_SIZE", "50")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "8080" &&
					cfg.Tokenizer == TokenizerTrigram &&
					cfg.LogFormat == "json" &&
					cfg.PageSize == 50
			},
		},
		{
			name: "unknown tokenizer",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "blog.db"))
				setEnv("TOKENIZER", "lucene")
			},
			wantErr: true,
		},
		{
			name: "unknown log format",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "blog.db"))
				setEnv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "non-numeric page size",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "blog.db"))
				setEnv("PAGE_SIZE", "many")
			},
			wantErr: true,
		},
		{
			name: "non-positive page size",
			setupEnv: func(t *testing.T) {
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "blog.db"))
				setEnv("PAGE_SIZE", "0")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envVars {
				unsetEnv(key)
			}
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config = %+v", cfg)
			}
		})
	}
}

func TestLoadCreatesDataDirectory(t *testing.T) {
	withCleanEnv(t)

	dataDir := filepath.Join(t.TempDir(), "nested", "data")
	setEnv("DB_PATH", filepath.Join(dataDir, "blog.db"))

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(dataDir); err != nil {
		t.Errorf("data directory not created: %v", err)
	}
}
