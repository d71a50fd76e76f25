package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/trainingtracker/internal/secrets"
	"github.com/2beens/trainingtracker/internal/training"
)

const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
	BackendMemory = "memory"
)

type Store interface {
	ReadAll(ctx context.Context) ([]training.WorkoutRecord, error)
	OverwriteAll(ctx context.Context, records []training.WorkoutRecord) error
}

var (
	_ Store = (*SheetsStore)(nil)
	_ Store = (*XLSXStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*UnavailableStore)(nil)
)

type Params struct {
	Backend   string
	Worksheet string
	XLSXPath  string
	// LoadSecrets is only called for backends that need credentials
	LoadSecrets func() (*secrets.Bundle, error)
}

// New sets up the configured store. Credential or connection problems do not fail here:
// they yield an UnavailableStore, so every later storage operation reports them.
func New(ctx context.Context, params Params) (Store, error) {
	switch strings.ToLower(params.Backend) {
	case BackendSheets, "":
		if params.LoadSecrets == nil {
			return nil, errors.New("sheets backend: no secrets source")
		}
		bundle, err := params.LoadSecrets()
		if err != nil {
			return NewUnavailableStore(err), nil
		}
		sheetsStore, err := NewSheetsStore(ctx, NewSheetsStoreParams{
			CredentialsJSON: bundle.CredentialsJSON,
			SpreadsheetID:   bundle.SpreadsheetID,
			Worksheet:       params.Worksheet,
		})
		if err != nil {
			return NewUnavailableStore(err), nil
		}
		return sheetsStore, nil
	case BackendXLSX:
		if params.XLSXPath == "" {
			return nil, errors.New("xlsx backend: path empty")
		}
		return NewXLSXStore(params.XLSXPath, params.Worksheet), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", params.Backend)
	}
}
