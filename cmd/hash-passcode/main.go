// Command hash-passcode generates the bcrypt hash for the admin
// passcode. Put the output in ADMIN_PASSWORD_HASH; the plaintext
// passcode is never stored anywhere.
package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/techquest/techquest-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	cfg := config.Load()

	fmt.Print("Enter admin passcode: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading passcode")
		os.Exit(1)
	}
	if len(bytePassword) < 8 {
		fmt.Fprintln(os.Stderr, "Error: passcode must be at least 8 characters")
		os.Exit(1)
	}

	fmt.Print("Confirm admin passcode: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading confirmation")
		os.Exit(1)
	}
	if string(bytePassword) != string(confirm) {
		fmt.Fprintln(os.Stderr, "Error: passcodes do not match")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword(bytePassword, cfg.BcryptCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing passcode: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add this to your environment:")
	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", string(hash))
}
