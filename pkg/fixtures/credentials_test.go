package fixtures

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrompter struct {
	answers map[bool]string
	err     error
	asked   []string
}

func (p *fakePrompter) Prompt(label string, secret bool) (string, error) {
	p.asked = append(p.asked, label)
	if p.err != nil {
		return "", p.err
	}
	return p.answers[secret], nil
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EmailEnv, "")
	t.Setenv(PasswordEnv, "")
}

func TestLoadCredentials_FromEnvironment(t *testing.T) {
	t.Setenv(EmailEnv, "env@example.com")
	t.Setenv(PasswordEnv, "env-secret")

	creds, err := LoadCredentials(CredentialSource{
		File: filepath.Join(t.TempDir(), "never-read.json"),
	})
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", creds.Email)
	assert.Equal(t, "env-secret", creds.Password)
}

func TestLoadCredentials_FromFile(t *testing.T) {
	clearCredentialEnv(t)
	path := writeFile(t, "credentials.json", `{"email": "file@example.com", "password": "file-secret"}`)

	creds, err := LoadCredentials(CredentialSource{File: path})
	require.NoError(t, err)
	assert.Equal(t, "file@example.com", creds.Email)
	assert.Equal(t, "file-secret", creds.Password)
}

func TestLoadCredentials_EnvOverridesFilePerField(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EmailEnv, "env@example.com")
	path := writeFile(t, "credentials.json", `{"email": "file@example.com", "password": "file-secret"}`)

	creds, err := LoadCredentials(CredentialSource{File: path})
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", creds.Email)
	assert.Equal(t, "file-secret", creds.Password)
}

func TestLoadCredentials_FromEnvFile(t *testing.T) {
	clearCredentialEnv(t)
	// t.Setenv restores the variables afterwards; unset them so the env file applies
	require.NoError(t, os.Unsetenv(EmailEnv))
	require.NoError(t, os.Unsetenv(PasswordEnv))
	envFile := writeFile(t, ".env", "BOARDCHECK_EMAIL=dotenv@example.com\nBOARDCHECK_PASSWORD=dotenv-secret\n")
	prompter := &fakePrompter{}

	creds, err := LoadCredentials(CredentialSource{EnvFile: envFile, Prompter: prompter})
	require.NoError(t, err)
	assert.Equal(t, "dotenv@example.com", creds.Email)
	assert.Equal(t, "dotenv-secret", creds.Password)
	assert.Empty(t, prompter.asked)
}

func TestLoadCredentials_EnvFileDoesNotOverride(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EmailEnv, "shell@example.com")
	require.NoError(t, os.Unsetenv(PasswordEnv))
	envFile := writeFile(t, ".env", "BOARDCHECK_EMAIL=dotenv@example.com\nBOARDCHECK_PASSWORD=dotenv-secret\n")

	creds, err := LoadCredentials(CredentialSource{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "shell@example.com", creds.Email)
	assert.Equal(t, "dotenv-secret", creds.Password)
}

func TestLoadCredentials_MissingEnvFileIsIgnored(t *testing.T) {
	clearCredentialEnv(t)
	path := writeFile(t, "credentials.json", `{"email": "file@example.com", "password": "pw"}`)

	_, err := LoadCredentials(CredentialSource{
		EnvFile: filepath.Join(t.TempDir(), ".env"),
		File:    path,
	})
	assert.NoError(t, err)
}

func TestLoadCredentials_Prompt(t *testing.T) {
	clearCredentialEnv(t)
	prompter := &fakePrompter{answers: map[bool]string{false: "  me@example.com \n", true: "s3cret"}}

	creds, err := LoadCredentials(CredentialSource{Prompter: prompter})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", creds.Email)
	assert.Equal(t, "s3cret", creds.Password)
	assert.Len(t, prompter.asked, 2)
}

func TestLoadCredentials_MissingFileFallsBackToPrompt(t *testing.T) {
	clearCredentialEnv(t)
	prompter := &fakePrompter{answers: map[bool]string{false: "me@example.com", true: "s3cret"}}

	creds, err := LoadCredentials(CredentialSource{
		File:     filepath.Join(t.TempDir(), "credentials.json"),
		Prompter: prompter,
	})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", creds.Email)
	assert.Len(t, prompter.asked, 2)
}

func TestLoadCredentials_PromptError(t *testing.T) {
	clearCredentialEnv(t)

	_, err := LoadCredentials(CredentialSource{Prompter: &fakePrompter{err: errors.New("EOF")}})
	cfgErr := requireConfigError(t, err)
	assert.Equal(t, "prompt", cfgErr.Source)
}

func TestLoadCredentials_Missing(t *testing.T) {
	clearCredentialEnv(t)

	tests := []struct {
		name string
		src  func(t *testing.T) CredentialSource
	}{
		{"no sources", func(t *testing.T) CredentialSource { return CredentialSource{} }},
		{"file without password", func(t *testing.T) CredentialSource {
			return CredentialSource{File: writeFile(t, "c.json", `{"email": "a@b.c"}`)}
		}},
		{"file missing", func(t *testing.T) CredentialSource {
			return CredentialSource{File: filepath.Join(t.TempDir(), "credentials.json")}
		}},
		{"file malformed", func(t *testing.T) CredentialSource {
			return CredentialSource{File: writeFile(t, "c.json", `{"email": `)}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCredentials(tt.src(t))
			requireConfigError(t, err)
		})
	}
}
