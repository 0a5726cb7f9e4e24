package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/passline/internal/core/domain"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect the password policy",
}

var policyCheckCmd = &cobra.Command{
	Use:   "check [password]",
	Short: "Check a password against the policy",
	Long: `Check a password against the composition policy and print its strength.

The password is prompted for when not given. Exits with status 1 when the
password does not satisfy the policy or contains a character the record
file cannot hold ('8' or '?').`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicyCheck,
}

var policyRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the policy rules",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, rule := range domain.PolicyRules() {
			cmd.Printf("%-12s %s\n", rule, rule.Description())
		}
	},
}

func init() {
	policyCmd.AddCommand(policyCheckCmd)
	policyCmd.AddCommand(policyRulesCmd)
	rootCmd.AddCommand(policyCmd)
}

func runPolicyCheck(cmd *cobra.Command, args []string) error {
	password := firstArg(args)
	if len(args) == 0 {
		secret, err := newPrompter(cmd).readSecret("Password - ")
		if err != nil {
			return err
		}
		password = secret
	}

	result := domain.ValidatePassword(password)
	storable := domain.CheckStorablePassword(password)
	switch {
	case result.Valid() && storable == nil:
		cmd.Println("Password satisfies the policy.")
	case !result.Valid():
		printPolicyFailures(cmd, result.Failed)
	}
	if storable != nil {
		cmd.Println(domain.UnstorableDescription)
	}
	cmd.Printf("Password Strength: %s\n", domain.PasswordStrength(password))

	if err := result.Err(); err != nil {
		return err
	}
	return storable
}
