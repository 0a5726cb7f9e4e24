package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/passline/internal/core/domain"
)

// errInputClosed is returned when stdin ends while a prompt is waiting.
var errInputClosed = errors.New("input closed")

// prompter reads answers from the command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	cmd    *cobra.Command
	in     io.Reader
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	return &prompter{cmd: cmd, in: in, reader: bufio.NewReader(in)}
}

// readLine prints label and returns the next line with surrounding space trimmed.
func (p *prompter) readLine(label string) (string, error) {
	p.cmd.Print(label)
	line, err := p.readRaw()
	return strings.TrimSpace(line), err
}

// readSecret prints label and reads a password. Only the line terminator is
// stripped; spaces are part of the password.
func (p *prompter) readSecret(label string) (string, error) {
	p.cmd.Print(label)

	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		p.cmd.Println()
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	return p.readRaw()
}

// readChoice reads a menu number. Anything unparsable yields -1.
func (p *prompter) readChoice(label string) (int, error) {
	line, err := p.readLine(label)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(line)
	if convErr != nil {
		return -1, nil
	}
	return n, nil
}

func (p *prompter) readRaw() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printPolicyRequirements(cmd *cobra.Command) {
	cmd.Println()
	cmd.Println("Password must satisfy:")
	for _, rule := range domain.PolicyRules() {
		cmd.Printf("- %s\n", strings.TrimPrefix(rule.Description(), "Password must contain "))
	}
	cmd.Printf("- %s\n", strings.TrimPrefix(domain.UnstorableDescription, "Password must "))
}

func printPolicyFailures(cmd *cobra.Command, rules []domain.PolicyRule) {
	for _, rule := range rules {
		cmd.Println(rule.Description())
	}
}
