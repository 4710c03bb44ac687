package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		PostsSource:         PostsSourceEmbedded,
		SignUpBackend:       SignUpBackendMemory,
		SignUpRatePerMinute: 30,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "file source without path", modify: func(c *Config) { c.PostsSource = PostsSourceFile }, wantErr: true},
		{name: "file source with path", modify: func(c *Config) {
			c.PostsSource = PostsSourceFile
			c.PostsFile = "posts.json"
		}},
		{name: "mongo source without uri", modify: func(c *Config) { c.PostsSource = PostsSourceMongo }, wantErr: true},
		{name: "mongo source with uri", modify: func(c *Config) {
			c.PostsSource = PostsSourceMongo
			c.MongoURI = "mongodb://localhost:27017"
		}},
		{name: "unknown source", modify: func(c *Config) { c.PostsSource = "s3" }, wantErr: true},
		{name: "postgres without dsn", modify: func(c *Config) { c.SignUpBackend = SignUpBackendPostgres }, wantErr: true},
		{name: "postgres with dsn", modify: func(c *Config) {
			c.SignUpBackend = SignUpBackendPostgres
			c.PostgresConnStr = "postgres://localhost/app"
		}},
		{name: "firebase without credentials", modify: func(c *Config) { c.SignUpBackend = SignUpBackendFirebase }, wantErr: true},
		{name: "unknown backend", modify: func(c *Config) { c.SignUpBackend = "ldap" }, wantErr: true},
		{name: "negative rate", modify: func(c *Config) { c.SignUpRatePerMinute = -1 }, wantErr: true},
		{name: "rate limiting off", modify: func(c *Config) { c.SignUpRatePerMinute = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("POSTS_SOURCE", PostsSourceFile)
	t.Setenv("POSTS_FILE", "/data/posts.json")
	t.Setenv("SIGNUP_TIMEOUT", "5s")
	t.Setenv("SIGNUP_RATE_PER_MINUTE", "12")

	cfg := Load()
	if cfg.Port != "3000" || cfg.PostsFile != "/data/posts.json" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.SignUpTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.SignUpTimeout)
	}
	if cfg.SignUpRatePerMinute != 12 {
		t.Errorf("expected rate 12, got %d", cfg.SignUpRatePerMinute)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SIGNUP_TIMEOUT", "")
	t.Setenv("SIGNUP_BACKEND", "")
	t.Setenv("POSTS_SOURCE", "")

	cfg := Load()
	if cfg.SignUpTimeout != 0 {
		t.Errorf("expected no timeout by default, got %s", cfg.SignUpTimeout)
	}
	if cfg.PostsSource != PostsSourceEmbedded || cfg.SignUpBackend != SignUpBackendMemory {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestGetHelpers_InvalidValues(t *testing.T) {
	t.Setenv("TEST_INT", "many")
	t.Setenv("TEST_DURATION", "soon")

	if got := getInt("TEST_INT", 7); got != 7 {
		t.Errorf("getInt fell through to %d", got)
	}
	if got := getDuration("TEST_DURATION", time.Second); got != time.Second {
		t.Errorf("getDuration fell through to %s", got)
	}
}
