// Command devtoken prints a signed bearer token for local testing.
//
//	go run ./cmd/devtoken -user 5f0c... -roles user,admin
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"eventadmission/config"
	"eventadmission/internal/adapters/auth"
)

func main() {
	userID := flag.String("user", "", "user id to put in the subject claim")
	roles := flag.String("roles", "user", "comma separated roles")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	var roleList []string
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}
	token, err := auth.NewJWTIssuer(cfg.JWTSecret).Issue(*userID, roleList, *ttl)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	fmt.Println(token)
}
