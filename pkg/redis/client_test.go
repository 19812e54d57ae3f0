package redis

import (
	"testing"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}

func TestOptionsFromConfigAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		Address:  "localhost:6379",
		Password: "secret",
		DB:       2,
		PoolSize: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("options not carried over: %+v", opts)
	}
	if opts.PoolSize != 7 {
		t.Fatalf("expected pool size 7, got %d", opts.PoolSize)
	}
}

func TestOptionsFromConfigURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@example.com:6380/3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "example.com:6380" || opts.DB != 3 {
		t.Fatalf("url not parsed: %+v", opts)
	}
}

func TestKeyBuilders(t *testing.T) {
	c := &Client{}
	tests := []struct {
		got  string
		want string
	}{
		{c.SessionKey("abc"), "sinta:session:abc"},
		{c.RateLimitKey("login:ip:1.2.3.4"), "sinta:rate_limit:login:ip:1.2.3.4"},
		{c.RefdataKey("provinces"), "sinta:refdata:provinces"},
		{c.RefdataKey("regencies", "32"), "sinta:refdata:regencies:32"},
		{c.ActionLockKey("sess", "approve:9"), "sinta:lock:sess:approve:9"},
		{c.ListStateKey("sess", "users_pending"), "sinta:list_state:sess:users_pending"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, tt.got)
		}
	}
}
