package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/passline/internal/core/domain"
	"github.com/custodia-labs/passline/internal/core/ports/driving"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Create and manage accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a new account",
	Long: `Create a new account and append it to the record store.

If the password does not satisfy the policy, the fallback password is stored
instead (see account.fallback_password), unless account.strict_create is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAccountCreate,
}

var accountLoginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and open the account menu",
	Long: `Log in to an existing account and open the interactive menu:

  1. Change Password
  2. Validate Password
  3. View Password
  4. Save to File
  5. Exit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAccountLogin,
}

var accountPasswdCmd = &cobra.Command{
	Use:   "passwd [username]",
	Short: "Change an account password",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAccountPasswd,
}

var accountShowCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Show the stored and decoded password",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAccountShow,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List usernames in the record store",
	Args:  cobra.NoArgs,
	RunE:  runAccountList,
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountLoginCmd)
	accountCmd.AddCommand(accountPasswdCmd)
	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountListCmd)
	rootCmd.AddCommand(accountCmd)
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runAccountCreate(cmd *cobra.Command, args []string) error {
	svc, err := accountService()
	if err != nil {
		return err
	}

	if _, err := createAccount(cmd.Context(), newPrompter(cmd), svc, firstArg(args)); err != nil {
		return err
	}
	cmd.Println()
	cmd.Println("Account created successfully!")
	return nil
}

func runAccountLogin(cmd *cobra.Command, args []string) error {
	s, err := sessionServices()
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	account, err := login(cmd.Context(), p, s, firstArg(args))
	if err != nil {
		return err
	}
	return runSession(cmd.Context(), p, account)
}

func runAccountPasswd(cmd *cobra.Command, args []string) error {
	s, err := sessionServices()
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	account, err := login(cmd.Context(), p, s, firstArg(args))
	if err != nil {
		return err
	}
	defer account.Logout()

	printPolicyRequirements(cmd)
	candidate, err := p.readSecret("Enter new password - ")
	if err != nil {
		return err
	}

	if err := account.ChangePassword(cmd.Context(), candidate); err != nil {
		var violation *domain.PolicyViolation
		if errors.As(err, &violation) {
			printPolicyFailures(cmd, violation.Rules)
		}
		if errors.Is(err, domain.ErrUnstorable) {
			cmd.Println(domain.UnstorableDescription)
		}
		cmd.Println("Password not changed.")
		return err
	}
	cmd.Println("Password changed successfully.")
	return nil
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	s, err := sessionServices()
	if err != nil {
		return err
	}

	account, err := login(cmd.Context(), newPrompter(cmd), s, firstArg(args))
	if err != nil {
		return err
	}
	defer account.Logout()

	printPasswords(cmd, account)
	return nil
}

func runAccountList(cmd *cobra.Command, _ []string) error {
	svc, err := accountService()
	if err != nil {
		return err
	}

	usernames, err := svc.ListUsernames(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}
	if len(usernames) == 0 {
		cmd.Println("No accounts.")
		return nil
	}
	for _, name := range usernames {
		cmd.Println(name)
	}
	return nil
}

// createAccount prompts for whatever is missing and creates the account.
// A prompted username is re-asked while it is invalid or taken; the password
// is re-asked while it collides with a stored one or, in strict mode, fails
// the policy.
func createAccount(ctx context.Context, p *prompter, svc driving.AccountService, username string) (driving.Account, error) {
	prompted := username == ""
	for prompted {
		name, err := p.readLine("Choose a Username - ")
		if err != nil {
			return nil, err
		}
		if err := domain.ValidateUsername(name); err != nil {
			p.cmd.Println("Invalid username. Try another.")
			continue
		}
		if _, err := svc.LoadAccount(ctx, name); err == nil {
			p.cmd.Println("Username already exists. Try another.")
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		username = name
		break
	}

	printPolicyRequirements(p.cmd)
	for {
		password, err := p.readSecret("Create Password - ")
		if err != nil {
			return nil, err
		}

		result, err := svc.CreateAccount(ctx, username, password)
		var violation *domain.PolicyViolation
		switch {
		case errors.Is(err, domain.ErrPasswordInUse):
			p.cmd.Println("Password already in use. Try another.")
			continue
		case errors.Is(err, domain.ErrUnstorable):
			p.cmd.Println(domain.UnstorableDescription + ". Try another.")
			continue
		case errors.As(err, &violation):
			printPolicyFailures(p.cmd, violation.Rules)
			continue
		case err != nil:
			return nil, err
		}

		if result.FallbackUsed {
			printPolicyFailures(p.cmd, result.Policy.Failed)
			p.cmd.Printf("Default password %q set because your password was invalid.\n", result.FallbackPassword)
		}
		return result.Account, nil
	}
}

// login loads username and spends the login budget on password prompts.
func login(ctx context.Context, p *prompter, s *Services, username string) (driving.Account, error) {
	if username == "" {
		name, err := p.readLine("Username - ")
		if err != nil {
			return nil, err
		}
		username = name
	}

	account, err := s.Accounts.LoadAccount(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			p.cmd.Println("Username not found.")
		}
		return nil, err
	}

	guard := s.NewGuard()
	for {
		password, err := p.readSecret("Password - ")
		if err != nil {
			return nil, err
		}

		ok, remaining, err := guard.Attempt(ctx, account, password)
		if err != nil {
			return nil, err
		}
		if ok {
			p.cmd.Println()
			p.cmd.Println("Login Successful!")
			return account, nil
		}

		p.cmd.Printf("Incorrect Password. %d attempts left.\n", remaining)
		if remaining == 0 {
			p.cmd.Println("Too many failed attempts. Exiting.")
			return nil, domain.ErrTooManyAttempts
		}
	}
}

func printPasswords(cmd *cobra.Command, account driving.Account) {
	cmd.Printf("Encrypted Password: %s\n", account.ViewEncoded())
	cmd.Printf("Decrypted Password: %s\n", account.ViewDecoded())
}
