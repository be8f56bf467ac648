package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret     string
	JWTIssuer     string
	JWTDuration   time.Duration
	AdminEmail    string
	AdminPassword string // plaintext from env, bcrypt-hashed once at startup
}

func LoadAuthConfig() AuthConfig {
	issuer := os.Getenv("SHELFSCAN_JWT_ISSUER")
	if issuer == "" {
		issuer = "shelfscan"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("SHELFSCAN_JWT_TTL_HOURS"); ttl != "" {
		if h, err := strconv.Atoi(ttl); err == nil && h > 0 {
			duration = time.Duration(h) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:     os.Getenv("SHELFSCAN_JWT_SECRET"),
		JWTIssuer:     issuer,
		JWTDuration:   duration,
		AdminEmail:    os.Getenv("SHELFSCAN_ADMIN_EMAIL"),
		AdminPassword: os.Getenv("SHELFSCAN_ADMIN_PASSWORD"),
	}
}

type ExtractConfig struct {
	VisionKey     string
	VisionTimeout time.Duration
}

func LoadExtractConfig() ExtractConfig {
	timeout := 12 * time.Second
	if s := os.Getenv("SHELFSCAN_VISION_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	return ExtractConfig{
		VisionKey:     os.Getenv("SHELFSCAN_VISION_KEY"),
		VisionTimeout: timeout,
	}
}

func ListenAddr() string {
	if a := os.Getenv("SHELFSCAN_ADDR"); a != "" {
		return a
	}
	return ":8080"
}
