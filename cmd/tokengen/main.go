// Command tokengen mints a signed bearer token for local development and
// testing. The signing secret comes from AUTH_JWT_SECRET (a .env file is
// auto-loaded if present), so tokens match what the API accepts.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"reportvault/internal/auth"
	"reportvault/internal/config"
)

func main() {
	var (
		subject = flag.String("subject", "", "owner id to embed as the token subject (required)")
		ttl     = flag.Duration("ttl", 0, "token lifetime (default: AUTH_TOKEN_TTL_MIN from the environment)")
	)
	flag.Parse()

	if *subject == "" {
		log.Fatal("usage: tokengen -subject <owner-id> [-ttl 1h]")
	}

	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET must be set")
	}

	lifetime := *ttl
	if lifetime == 0 {
		lifetime = time.Duration(cfg.Auth.TokenTTLMin) * time.Minute
	}

	token, err := auth.GenerateToken(cfg.Auth.JWTSecret, *subject, lifetime)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	fmt.Println(token)
}
