// Command dev-token prints a bearer token for local testing of the API.
//
// Usage:
//
//	JWT_SECRET=... go run ./cmd/dev-token -user 1 -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"budgetapp/internal/auth"
	"budgetapp/internal/cli"
)

func main() {
	userID := flag.Int64("user", 1, "user ID placed in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cli.LoadEnvFile()

	verifier, err := auth.NewVerifier(os.Getenv("JWT_SECRET"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}
	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "user must be a positive integer")
		os.Exit(1)
	}

	token, err := verifier.Issue(*userID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
