package utils

import (
	"testing"
	"time"
)

func TestLoadAuthConfig_Defaults(t *testing.T) {
	t.Setenv("SHELFSCAN_JWT_SECRET", "")
	t.Setenv("SHELFSCAN_JWT_ISSUER", "")
	t.Setenv("SHELFSCAN_JWT_TTL_HOURS", "")

	cfg := LoadAuthConfig()
	if cfg.JWTIssuer != "shelfscan" {
		t.Errorf("issuer = %q", cfg.JWTIssuer)
	}
	if cfg.JWTDuration != 24*time.Hour {
		t.Errorf("duration = %v", cfg.JWTDuration)
	}
}

func TestLoadAuthConfig_TTLOverride(t *testing.T) {
	t.Setenv("SHELFSCAN_JWT_TTL_HOURS", "6")
	if d := LoadAuthConfig().JWTDuration; d != 6*time.Hour {
		t.Errorf("duration = %v, want 6h", d)
	}

	t.Setenv("SHELFSCAN_JWT_TTL_HOURS", "not-a-number")
	if d := LoadAuthConfig().JWTDuration; d != 24*time.Hour {
		t.Errorf("bad ttl should fall back to 24h, got %v", d)
	}
}

func TestLoadExtractConfig(t *testing.T) {
	t.Setenv("SHELFSCAN_VISION_KEY", "k-123")
	t.Setenv("SHELFSCAN_VISION_TIMEOUT_SECONDS", "5")

	cfg := LoadExtractConfig()
	if cfg.VisionKey != "k-123" {
		t.Errorf("key = %q", cfg.VisionKey)
	}
	if cfg.VisionTimeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.VisionTimeout)
	}
}

func TestListenAddr(t *testing.T) {
	t.Setenv("SHELFSCAN_ADDR", "")
	if a := ListenAddr(); a != ":8080" {
		t.Errorf("default addr = %q", a)
	}
	t.Setenv("SHELFSCAN_ADDR", ":9999")
	if a := ListenAddr(); a != ":9999" {
		t.Errorf("addr = %q", a)
	}
}
