package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	EnvCredentials     = "GOOGLE_SHEETS_CREDENTIALS"
	EnvCredentialsFile = "GOOGLE_SHEETS_CREDENTIALS_FILE"
	EnvSpreadsheetID   = "SPREADSHEET_ID"
)

var (
	ErrMissingCredentials   = errors.New("google sheets credentials not set")
	ErrMissingSpreadsheetID = errors.New("spreadsheet id not set")
)

// Bundle holds what is needed to reach the spreadsheet store.
type Bundle struct {
	CredentialsJSON []byte
	SpreadsheetID   string
}

type Params struct {
	// EnvFile is an optional dotenv file; values already in the environment win
	EnvFile string
	// CredentialsFile is used when neither credentials env var is set
	CredentialsFile string
}

func Load(params Params) (*Bundle, error) {
	if params.EnvFile != "" {
		if err := godotenv.Load(params.EnvFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load env file [%s]: %w", params.EnvFile, err)
			}
			log.Debugf("env file [%s] not found, using process environment only", params.EnvFile)
		}
	}

	credentialsJSON, err := loadCredentials(params.CredentialsFile)
	if err != nil {
		return nil, err
	}

	spreadsheetID := strings.TrimSpace(os.Getenv(EnvSpreadsheetID))
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w, use %s", ErrMissingSpreadsheetID, EnvSpreadsheetID)
	}

	return &Bundle{
		CredentialsJSON: credentialsJSON,
		SpreadsheetID:   spreadsheetID,
	}, nil
}

func loadCredentials(fallbackFile string) ([]byte, error) {
	var credentialsJSON []byte
	if creds := strings.TrimSpace(os.Getenv(EnvCredentials)); creds != "" {
		credentialsJSON = []byte(creds)
	} else {
		credentialsFile := os.Getenv(EnvCredentialsFile)
		if credentialsFile == "" {
			credentialsFile = fallbackFile
		}
		if credentialsFile == "" {
			return nil, fmt.Errorf("%w, use %s or %s", ErrMissingCredentials, EnvCredentials, EnvCredentialsFile)
		}

		fileBytes, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read credentials file: %s", ErrMissingCredentials, err)
		}
		credentialsJSON = fileBytes
	}

	if !json.Valid(credentialsJSON) {
		return nil, fmt.Errorf("%w: credentials are not valid JSON", ErrMissingCredentials)
	}

	return credentialsJSON, nil
}
