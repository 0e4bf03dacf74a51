package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"food-ordering-api/config"
	"food-ordering-api/logger"
	"food-ordering-api/services"
	"food-ordering-api/store"
)

// main seeds the catalog and manages admin accounts.
// Usage:
//
//	go run ./cmd/seed -menu
//	go run ./cmd/seed -create-admin -email admin@madrasmeals.com -password '...'
//	go run ./cmd/seed -reset-password -email admin@madrasmeals.com -password '...'
func main() {
	var (
		seedMenu      = flag.Bool("menu", false, "replace the catalog with the sample menu")
		createAdmin   = flag.Bool("create-admin", false, "create an admin account")
		resetPassword = flag.Bool("reset-password", false, "reset an admin's password")
		name          = flag.String("name", "Admin User", "admin display name")
		email         = flag.String("email", os.Getenv("SEED_ADMIN_EMAIL"), "admin email")
		password      = flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password")
	)
	flag.Parse()
	if !*seedMenu && !*createAdmin && !*resetPassword {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}
	ctx, cancel := config.WithTimeout(time.Minute)
	defer cancel()

	db, err := config.OpenStore(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("❌ database: %v", err)
	}
	defer db.Close()
	log.Printf("✓ Connected to %s", cfg.Database.Driver)

	if *seedMenu {
		n, err := seedCatalog(ctx, db)
		if err != nil {
			log.Fatalf("❌ seed menu: %v", err)
		}
		log.Printf("✅ Successfully seeded %d menu items", n)
	}

	admins := services.NewAdminService(db, logger.Discard())
	if *createAdmin {
		admin, err := admins.Create(ctx, *name, *email, *password)
		if services.KindOf(err) == services.KindConflict {
			log.Printf("Admin user %s already exists", *email)
		} else if err != nil {
			log.Fatalf("❌ create admin: %v", err)
		} else {
			fmt.Printf("✅ Admin created\nID:    %s\nEmail: %s\n", admin.ID, admin.Email)
		}
	}

	if *resetPassword {
		if err := resetAdminPassword(ctx, db, admins, *email, *password); err != nil {
			log.Fatalf("❌ reset password: %v", err)
		}
		log.Printf("✅ Password reset for %s", *email)
	}
}

// seedCatalog clears the menu and inserts the sample items
func seedCatalog(ctx context.Context, db store.MenuStore) (int, error) {
	cleared, err := db.DeleteAllMenuItems(ctx)
	if err != nil {
		return 0, err
	}
	log.Printf("Cleared %d existing menu items", cleared)

	items := sampleMenu()
	if err := db.CreateMenuItems(ctx, items...); err != nil {
		return 0, err
	}
	return len(items), nil
}

func resetAdminPassword(ctx context.Context, db store.UserStore, admins *services.AdminService, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return errors.New("-email is required")
	}
	user, err := db.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("admin %s not found, run with -create-admin first", email)
	}
	if err != nil {
		return err
	}
	return admins.ResetPassword(ctx, user.ID, password)
}
