package main

import (
	"bufio"   // Line-based prompt input
	"fmt"     // Prompt output
	"os"      // Standard input/output streams
	"strings" // Input trimming

	"pigment_catalog/internal/config" // Custom package for configuration
	"pigment_catalog/internal/domain" // Importing domain models
	"pigment_catalog/internal/utils"  // Password hashing

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/term"          // No-echo password input
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// prompt reads one trimmed line after printing a label
func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// Main entry point for admin provisioning
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	reader := bufio.NewReader(os.Stdin) // Prompt reader
	username := prompt(reader, "Admin username: ")
	email := prompt(reader, "Admin email: ")
	firstName := prompt(reader, "First name: ")
	lastName := prompt(reader, "Last name: ")
	if username == "" || email == "" {
		logrus.Fatal("username and email are required")
	}

	// Read the password without echoing it
	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		logrus.Fatalf("failed to read password: %v", err)
	}
	if len(pwBytes) == 0 {
		logrus.Fatal("password must not be empty")
	}

	// Reject a colliding username or email
	var existing domain.User
	if err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
		logrus.Fatal("user with that username or email already exists")
	}

	// Hash the password and create the admin user
	hash, err := utils.HashPassword(string(pwBytes))
	if err != nil {
		logrus.Fatalf("failed to hash password: %v", err)
	}
	user := domain.User{
		Username:     username,  // Unique username
		Email:        email,     // Unique email
		FirstName:    firstName, // First name
		LastName:     lastName,  // Last name
		PasswordHash: hash,      // Hashed credential
		IsAdmin:      true,      // Provisioned accounts are admins
	}
	if err := db.Create(&user).Error; err != nil {
		logrus.Fatalf("failed to create admin user: %v", err)
	}
	fmt.Printf("Admin user %q created successfully\n", username)
}
