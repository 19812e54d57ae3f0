package config

import "testing"

func TestUpstreamValidate(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"https", "https://api.sinta.go.id", false},
		{"http", "http://localhost:8000", false},
		{"missing scheme", "api.sinta.go.id", true},
		{"bad scheme", "ftp://api.sinta.go.id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := UpstreamConfig{BaseURL: tt.baseURL}
			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "Development"}).IsDev() {
		t.Fatal("expected IsDev for Development")
	}
	if !(AppConfig{Env: "PRODUCTION"}).IsProd() {
		t.Fatal("expected IsProd for PRODUCTION")
	}
	if (AppConfig{Env: "staging"}).IsProd() {
		t.Fatal("staging must not report prod")
	}
}
