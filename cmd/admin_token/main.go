package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"telegram_chess/internal/service"
)

// Mints a bearer token for the read-only admin API. JWT_SECRET must
// match the running service.
func main() {
	userID := flag.Int64("user", 0, "telegram user id the token identifies")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == 0 {
		log.Fatal("-user is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	service.InitJWT(secret)

	token, err := service.GenerateJWT(*userID, *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	fmt.Println(token)
}
