package main

import (
	"flag"
	"fmt"
	"log"

	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/infrastructure/devops"
	"guardpost.app/guardpost/security"
)

// Prints an access token for ad-hoc API testing.
func main() {
	employeeID := flag.String("employee", "0001", "employee id to embed")
	userID := flag.Uint("uid", 1, "user id to embed")
	admin := flag.Bool("admin", false, "mark the identity as admin")
	flag.Parse()

	config, err := devops.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	secret, err := config.DecodeSigningSecret()
	if err != nil {
		log.Fatalf("signing secret: %v", err)
	}

	user := models.User{
		ID:         *userID,
		EmployeeID: *employeeID,
		IsAdmin:    *admin,
	}

	token, err := security.CreateAccessToken(&user, secret)
	if err != nil {
		log.Fatalf("create token: %v", err)
	}
	fmt.Println(token)
}
