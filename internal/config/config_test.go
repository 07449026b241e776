package config

import (
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 5080 {
		t.Errorf("HTTP.Port = %d, want 5080", cfg.HTTP.Port)
	}
	if cfg.Search.EmbeddingsPath != "embeddings.npy" {
		t.Errorf("Search.EmbeddingsPath = %q, want embeddings.npy", cfg.Search.EmbeddingsPath)
	}
	if cfg.Search.DataPath != "data.json" {
		t.Errorf("Search.DataPath = %q, want data.json", cfg.Search.DataPath)
	}
	if cfg.Search.TextField != "text" {
		t.Errorf("Search.TextField = %q, want text", cfg.Search.TextField)
	}
	if cfg.Search.DefaultTopK != 5 {
		t.Errorf("Search.DefaultTopK = %d, want 5", cfg.Search.DefaultTopK)
	}
	if cfg.Search.PreviewLen != 200 {
		t.Errorf("Search.PreviewLen = %d, want 200", cfg.Search.PreviewLen)
	}
	if cfg.Cache.TTLSec != 24*3600 {
		t.Errorf("Cache.TTLSec = %d, want 86400", cfg.Cache.TTLSec)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{}
	valid.Embedding.Model = "text-embedding-3-small"
	valid.ApplyDefaults()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, true},
		{"missing model", func(c *Config) { c.Embedding.Model = "" }, true},
		{"negative dimensions", func(c *Config) { c.Embedding.Dimensions = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DOCSEARCH_TEST_KEY", "secret")

	in := []byte("api_key: ${DOCSEARCH_TEST_KEY}\nbase_url: ${DOCSEARCH_TEST_MISSING:-https://api.openai.com/v1}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: secret\nbase_url: https://api.openai.com/v1\n" {
		t.Errorf("unexpected expansion:\n%s", out)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if env := GetEnv(); env != "local" {
		t.Errorf("GetEnv() = %q, want local", env)
	}
	t.Setenv("ENV", "prod")
	if env := GetEnv(); env != "prod" {
		t.Errorf("GetEnv() = %q, want prod", env)
	}
}
