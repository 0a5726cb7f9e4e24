package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errInvalidChoice = errors.New("invalid choice")

// runWelcome is the interactive entry point: log in as an existing user or
// create a new one, then open the account menu.
func runWelcome(cmd *cobra.Command, _ []string) error {
	s, err := sessionServices()
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	cmd.Println("Welcome to Password Manager")
	cmd.Println("----------------------------")
	cmd.Println("1. Existing User")
	cmd.Println("2. New User")

	choice, err := p.readChoice("Enter your choice: ")
	if err != nil {
		return err
	}

	switch choice {
	case 1:
		account, err := login(cmd.Context(), p, s, "")
		if err != nil {
			return err
		}
		return runSession(cmd.Context(), p, account)
	case 2:
		account, err := createAccount(cmd.Context(), p, s.Accounts, "")
		if err != nil {
			return err
		}
		cmd.Println()
		cmd.Println("Account created successfully!")
		return runSession(cmd.Context(), p, account)
	default:
		cmd.Println("Invalid choice.")
		return errInvalidChoice
	}
}
