package fixtures

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/entrhq/boardcheck/pkg/types"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// Environment variables consulted for credentials.
const (
	EmailEnv    = "BOARDCHECK_EMAIL"
	PasswordEnv = "BOARDCHECK_PASSWORD"
)

// Prompter asks the user for a value. Secret values must not be echoed.
type Prompter interface {
	Prompt(label string, secret bool) (string, error)
}

// CredentialSource lists where credentials may come from. Each field is
// taken from the first source that provides it: environment (after loading
// EnvFile), then File, then Prompter.
type CredentialSource struct {
	// EnvFile is a dotenv file loaded into the environment when it exists.
	// Variables already set are not overridden.
	EnvFile string

	// File is a JSON file holding {"email": ..., "password": ...}
	File string

	// Prompter is asked for anything still missing; nil disables prompting
	Prompter Prompter
}

// LoadCredentials resolves credentials from src. Missing email or password
// after every source is a *types.ConfigurationError.
func LoadCredentials(src CredentialSource) (types.Credentials, error) {
	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return types.Credentials{}, types.NewConfigurationError(src.EnvFile, err, "failed to load env file")
		}
	}

	creds := types.Credentials{
		Email:    os.Getenv(EmailEnv),
		Password: os.Getenv(PasswordEnv),
	}

	if (creds.Email == "" || creds.Password == "") && src.File != "" {
		fromFile, err := readCredentialsFile(src.File)
		switch {
		case errors.Is(err, os.ErrNotExist):
			debugLog.Debugf("No credentials file at %s", src.File)
		case err != nil:
			return types.Credentials{}, err
		default:
			if creds.Email == "" {
				creds.Email = fromFile.Email
			}
			if creds.Password == "" {
				creds.Password = fromFile.Password
			}
		}
	}

	if src.Prompter != nil {
		if creds.Email == "" {
			email, err := src.Prompter.Prompt("Enter your Asana email: ", false)
			if err != nil {
				return types.Credentials{}, types.NewConfigurationError("prompt", err, "failed to read email")
			}
			creds.Email = strings.TrimSpace(email)
		}
		if creds.Password == "" {
			password, err := src.Prompter.Prompt("Enter your Asana password: ", true)
			if err != nil {
				return types.Credentials{}, types.NewConfigurationError("prompt", err, "failed to read password")
			}
			creds.Password = password
		}
	}

	if creds.Email == "" || creds.Password == "" {
		return types.Credentials{}, types.NewConfigurationError("credentials", nil,
			"email or password missing (set %s and %s, or provide a credentials file)", EmailEnv, PasswordEnv)
	}

	debugLog.Infof("Credentials loaded for %s", creds.Email)
	return creds, nil
}

func readCredentialsFile(path string) (types.Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.Credentials{}, err
		}
		return types.Credentials{}, types.NewConfigurationError(path, err, "failed to read credentials file")
	}

	var creds types.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return types.Credentials{}, types.NewConfigurationError(path, err, "failed to parse credentials file")
	}
	return creds, nil
}

// TerminalPrompter prompts on a terminal, reading secrets without echo.
type TerminalPrompter struct {
	In  *os.File
	Out io.Writer

	reader *bufio.Reader
}

// NewTerminalPrompter returns a prompter on stdin/stderr, or nil when stdin
// is not a terminal.
func NewTerminalPrompter() *TerminalPrompter {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return &TerminalPrompter{In: os.Stdin, Out: os.Stderr}
}

// Prompt implements Prompter.
func (p *TerminalPrompter) Prompt(label string, secret bool) (string, error) {
	fmt.Fprint(p.Out, label)

	if secret {
		b, err := term.ReadPassword(int(p.In.Fd()))
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
