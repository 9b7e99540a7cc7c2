package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	dbfs "github.com/garnizeh/placement/db"
	"github.com/garnizeh/placement/internal/auth"
	"github.com/garnizeh/placement/internal/config"
	"github.com/garnizeh/placement/internal/db"
	"github.com/garnizeh/placement/internal/repository/sqlite"
	"github.com/garnizeh/placement/pkg/models"
)

func main() {
	adminEmail := flag.String("admin-email", "", "Create an admin account with this email")
	adminPassword := flag.String("admin-password", "", "Password of the admin account")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Database initialized successfully.")

	if *adminEmail == "" {
		return
	}
	if *adminPassword == "" {
		fmt.Fprintln(os.Stderr, "Admin error: -admin-password is required with -admin-email")
		os.Exit(1)
	}
	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Admin error: %v\n", err)
		os.Exit(1)
	}
	u := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(*adminEmail)),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := sqlite.New(database, nil).CreateUser(ctx, u); err != nil {
		fmt.Fprintf(os.Stderr, "Admin error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Admin %s created.\n", u.Email)
}
