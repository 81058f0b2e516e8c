package main

import (
	"context"
	"flag"
	"log"

	"gorm.io/gorm"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/core/models"
	"guardpost.app/guardpost/infrastructure/devops"
	"guardpost.app/guardpost/security"
)

// Creates the schema and a first admin user so the API is usable on a
// fresh database.
func main() {
	employeeID := flag.String("employee", "0001", "admin employee id")
	password := flag.String("password", "", "admin password (required)")
	name := flag.String("name", "Administrator", "admin display name")
	flag.Parse()

	if *password == "" {
		log.Fatal("a password is required: -password <value>")
	}

	config, err := devops.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dm, err := core.New(config.DSN, config.MaxConns)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer dm.Close()

	if err := dm.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	err = dm.Exec(context.Background(), func(db *gorm.DB) error {
		var count int64
		if err := db.Model(&models.User{}).Where("employee_id = ?", *employeeID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Printf("user %s already exists, nothing to do", *employeeID)
			return nil
		}

		hashed, err := security.HashPassword(*password)
		if err != nil {
			return err
		}

		admin := models.User{
			EmployeeID: *employeeID,
			Password:   hashed,
			Name:       *name,
			IsAdmin:    true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}

		log.Printf("created admin user %s", *employeeID)
		return nil
	})
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
}
