package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/trainingtracker/internal/telemetry/tracing"
	"github.com/2beens/trainingtracker/internal/training"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore keeps the training table in one worksheet of a Google spreadsheet.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
	worksheet     string
}

type NewSheetsStoreParams struct {
	CredentialsJSON []byte
	SpreadsheetID   string
	// Worksheet is the worksheet (tab) title; empty means the first worksheet
	Worksheet string
}

func NewSheetsStore(ctx context.Context, params NewSheetsStoreParams) (*SheetsStore, error) {
	if params.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id empty")
	}

	// https://github.com/googleapis/google-api-go-client/blob/main/sheets/v4/sheets-gen.go
	creds, err := google.CredentialsFromJSON(ctx, params.CredentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	oauthCtx := context.WithValue(ctx, oauth2.HTTPClient, tracedHttpClient)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(oauthCtx, creds.TokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve sheets client: %w", err)
	}

	return NewSheetsStoreWithService(service, params.SpreadsheetID, params.Worksheet), nil
}

func NewSheetsStoreWithService(service *sheets.Service, spreadsheetID, worksheet string) *SheetsStore {
	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}
}

func (s *SheetsStore) ReadAll(ctx context.Context) (_ []training.WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.sheets.readAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("spreadsheet_id", s.spreadsheetID))

	worksheet, err := s.resolveWorksheet(ctx)
	if err != nil {
		return nil, err
	}

	valueRange, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, sheetRange(worksheet, "")).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values of [%s]: %w", worksheet, err)
	}

	log.Tracef("read %d rows from worksheet [%s]", len(valueRange.Values), worksheet)

	return DecodeRows(valueRange.Values)
}

// OverwriteAll clears the worksheet, then writes the header and all records from A1.
func (s *SheetsStore) OverwriteAll(ctx context.Context, records []training.WorkoutRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.sheets.overwriteAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("spreadsheet_id", s.spreadsheetID),
		attribute.Int("records", len(records)),
	)

	worksheet, err := s.resolveWorksheet(ctx)
	if err != nil {
		return err
	}

	if _, err := s.service.Spreadsheets.Values.
		Clear(s.spreadsheetID, sheetRange(worksheet, ""), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("clear [%s]: %w", worksheet, err)
	}

	startCell := sheetRange(worksheet, "A1")
	resp, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, startCell, &sheets.ValueRange{
			MajorDimension: "ROWS",
			Values:         EncodeRows(records),
		}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update [%s]: %w", startCell, err)
	}

	log.Tracef("worksheet [%s] overwritten, %d rows updated", worksheet, resp.UpdatedRows)

	return nil
}

func (s *SheetsStore) resolveWorksheet(ctx context.Context) (string, error) {
	if s.worksheet != "" {
		return s.worksheet, nil
	}

	spreadsheet, err := s.service.Spreadsheets.
		Get(s.spreadsheetID).
		Fields("sheets(properties(title))").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet: %w", err)
	}
	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
		return "", errors.New("spreadsheet has no worksheets")
	}

	s.worksheet = spreadsheet.Sheets[0].Properties.Title
	log.Debugf("using first worksheet: [%s]", s.worksheet)

	return s.worksheet, nil
}

// sheetRange builds an A1 range with the worksheet title quoted, e.g. 'Hoja 1'!A1.
func sheetRange(worksheet, cells string) string {
	quoted := "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
	if cells == "" {
		return quoted
	}
	return quoted + "!" + cells
}
