package models

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	console "backoffice/internal/utils/logger"
)

var log = console.New("SEEDER")

// EnsureDefaultRoles creates the built-in roles if missing. Both start with
// an empty permission set; an empty set grants nothing (fail closed).
func EnsureDefaultRoles(db *gorm.DB) error {
	defaults := []Role{
		{Name: RoleAdmin, Description: "Full administrative access"},
		{Name: RoleUser, Description: "Standard account"},
	}
	for _, role := range defaults {
		if err := db.Where("name = ?", role.Name).FirstOrCreate(&Role{}, role).Error; err != nil {
			return fmt.Errorf("failed to create role %s: %w", role.Name, err)
		}
	}
	return nil
}

// CreateAdminFromEnv creates a super admin account from ADMIN_EMAIL /
// ADMIN_PASSWORD / ADMIN_NAME if no admin-role user exists yet.
func CreateAdminFromEnv(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).Where("roles LIKE ?", "%"+RoleAdmin+"%").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("ADMIN_EMAIL")
	if !ok {
		return fmt.Errorf("ADMIN_EMAIL not set")
	}
	password, ok := os.LookupEnv("ADMIN_PASSWORD")
	if !ok {
		return fmt.Errorf("ADMIN_PASSWORD not set")
	}
	name, ok := os.LookupEnv("ADMIN_NAME")
	if !ok {
		name = "Super Admin"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Roles:    StringList{RoleAdmin, RoleUser},
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Success("Created admin account %s", email)
	return nil
}

// SeedSampleUsers creates the demo accounts used by the cmd/seed CLI. Each
// create is skipped when the email already exists, so reruns are harmless.
func SeedSampleUsers(db *gorm.DB) error {
	samples := []struct {
		name     string
		email    string
		password string
		roles    StringList
	}{
		{"Super Admin", "admin@example.com", "admin123", StringList{RoleAdmin, RoleUser}},
		{"Manager Admin", "manager@example.com", "manager123", StringList{RoleAdmin, "manager", RoleUser}},
		{"Regular User", "user@example.com", "user123", StringList{RoleUser}},
	}
	for _, sample := range samples {
		var existing User
		err := db.Where("email = ?", sample.email).First(&existing).Error
		if err == nil {
			log.Info("Account %s already exists", sample.email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(sample.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", sample.email, err)
		}
		user := User{
			Name:     sample.name,
			Email:    sample.email,
			Password: string(hashed),
			Roles:    sample.roles,
			Active:   true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", sample.email, err)
		}
		log.Success("Created account %s", sample.email)
	}
	return nil
}
