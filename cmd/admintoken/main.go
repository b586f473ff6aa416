package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"invite-redirector/internal/config"
	"invite-redirector/internal/security"
)

// admintoken mints a bearer token for the admin API.
func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional, env vars always apply)")
	email := flag.String("email", "", "Admin email to embed in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	tm := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AdminEmails)
	token, err := tm.GenerateAdminToken(*email, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	// Fail early when the allow list would reject this token.
	if _, err := tm.ValidateAdminToken(token); err != nil {
		log.Fatalf("Token for %s would be rejected: %v", *email, err)
	}
	fmt.Println(token)
}
