package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCredentials = `{"type": "service_account", "project_id": "training-tracker"}`

// clearEnv unsets the given vars for the duration of the test
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t, EnvCredentialsFile)
	t.Setenv(EnvCredentials, testCredentials)
	t.Setenv(EnvSpreadsheetID, " sheet-123 ")

	bundle, err := Load(Params{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
	assert.JSONEq(t, testCredentials, string(bundle.CredentialsJSON))
	assert.Equal(t, "sheet-123", bundle.SpreadsheetID)
}

func TestLoad_FromEnvFileAndCredentialsFile(t *testing.T) {
	clearEnv(t, EnvCredentials, EnvCredentialsFile, EnvSpreadsheetID)

	credentialsPath := writeFile(t, "credentials.json", testCredentials)
	envFile := writeFile(t, ".env",
		EnvSpreadsheetID+"=sheet-from-dotenv\n"+
			EnvCredentialsFile+"="+credentialsPath+"\n",
	)

	bundle, err := Load(Params{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "sheet-from-dotenv", bundle.SpreadsheetID)
	assert.JSONEq(t, testCredentials, string(bundle.CredentialsJSON))
}

func TestLoad_FallbackCredentialsFile(t *testing.T) {
	clearEnv(t, EnvCredentials, EnvCredentialsFile)
	t.Setenv(EnvSpreadsheetID, "sheet-123")

	bundle, err := Load(Params{CredentialsFile: writeFile(t, "creds.json", testCredentials)})
	require.NoError(t, err)
	assert.JSONEq(t, testCredentials, string(bundle.CredentialsJSON))
}

func TestLoad_Errors(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		clearEnv(t, EnvCredentials, EnvCredentialsFile)
		t.Setenv(EnvSpreadsheetID, "sheet-123")

		_, err := Load(Params{})
		assert.True(t, errors.Is(err, ErrMissingCredentials))
	})

	t.Run("credentials not json", func(t *testing.T) {
		clearEnv(t, EnvCredentialsFile)
		t.Setenv(EnvCredentials, "not json at all")
		t.Setenv(EnvSpreadsheetID, "sheet-123")

		_, err := Load(Params{})
		assert.True(t, errors.Is(err, ErrMissingCredentials))
	})

	t.Run("credentials file missing", func(t *testing.T) {
		clearEnv(t, EnvCredentials)
		t.Setenv(EnvCredentialsFile, filepath.Join(t.TempDir(), "nope.json"))
		t.Setenv(EnvSpreadsheetID, "sheet-123")

		_, err := Load(Params{})
		assert.True(t, errors.Is(err, ErrMissingCredentials))
	})

	t.Run("no spreadsheet id", func(t *testing.T) {
		clearEnv(t, EnvCredentialsFile, EnvSpreadsheetID)
		t.Setenv(EnvCredentials, testCredentials)

		_, err := Load(Params{})
		assert.True(t, errors.Is(err, ErrMissingSpreadsheetID))
	})
}
