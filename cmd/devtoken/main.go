// Command devtoken prints a signed bearer token for local testing against
// the API. It reads JWT_SECRET the same way the server does.
//
//	devtoken -user 6f1c...-uuid [-email alice@example.com] [-ttl 24h]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/middleware"
)

func main() {
	userFlag := flag.String("user", "", "user id (uuid) to put in the token")
	email := flag.String("email", "", "optional email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fail(err)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fail(fmt.Errorf("JWT_SECRET is not set"))
	}
	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		fail(fmt.Errorf("-user: %w", err))
	}

	token, err := middleware.SignToken([]byte(secret), userID, *email, *ttl)
	if err != nil {
		fail(err)
	}
	fmt.Println(token)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "devtoken:", err)
	os.Exit(1)
}
