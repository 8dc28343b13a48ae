package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"shiftsync.com/shiftsync/security"
)

func main() {
	name := flag.String("name", "ops", "unique_name claim for the token")
	email := flag.String("email", "", "email claim for the token")
	expires := flag.Int64("expires", 3600, "token lifetime in seconds")
	flag.Parse()

	secret := os.Getenv("SHIFTSYNC_SERVER_JWT_SECRET")
	if secret == "" {
		log.Fatal("SHIFTSYNC_SERVER_JWT_SECRET must be set")
	}

	token, err := security.CreateIdentityToken(&security.ServiceIdentity{
		ID:       0,
		UserName: *name,
		Email:    *email,
		Provider: "cli",
	}, secret, *expires)
	if err != nil {
		log.Fatalf("create token: %v", err)
	}

	fmt.Println(token)
}
