// admin-token mints a bearer token for the configured admin account, for
// driving the API from curl or scripts without going through /auth/login.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"shelfscan/internal/auth"
	"shelfscan/pkg/utils"
)

func main() {
	email := flag.String("email", "", "email claim (defaults to SHELFSCAN_ADMIN_EMAIL)")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	cfg := utils.LoadAuthConfig()

	if cfg.JWTSecret == "" {
		log.Fatal("SHELFSCAN_JWT_SECRET is not set")
	}

	claim := *email
	if claim == "" {
		claim = cfg.AdminEmail
	}
	if claim == "" {
		log.Fatal("no email: set SHELFSCAN_ADMIN_EMAIL or pass -email")
	}

	tokens := auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration,
	}

	token, exp, err := tokens.Sign(claim)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println(token)
	log.Printf("expires at %s", exp.UTC().Format("2006-01-02 15:04:05 MST"))
}
