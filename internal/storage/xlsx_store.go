package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/2beens/trainingtracker/internal/telemetry/tracing"
	"github.com/2beens/trainingtracker/internal/training"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

const DefaultWorksheet = "Sheet1"

// XLSXStore keeps the training table in a local Excel workbook.
type XLSXStore struct {
	path      string
	worksheet string
}

func NewXLSXStore(path, worksheet string) *XLSXStore {
	if worksheet == "" {
		worksheet = DefaultWorksheet
	}
	return &XLSXStore{
		path:      path,
		worksheet: worksheet,
	}
}

func (s *XLSXStore) ReadAll(ctx context.Context) (_ []training.WorkoutRecord, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "storage.xlsx.readAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", s.path))

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("workbook [%s] does not exist yet, history empty", s.path)
			return []training.WorkoutRecord{}, nil
		}
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warnf("close workbook [%s]: %s", s.path, closeErr)
		}
	}()

	rows, err := f.GetRows(s.worksheet)
	if err != nil {
		return nil, fmt.Errorf("get rows of [%s]: %w", s.worksheet, err)
	}

	cells := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		r := make([]interface{}, len(row))
		for i, c := range row {
			r[i] = c
		}
		cells = append(cells, r)
	}

	return DecodeRows(cells)
}

// OverwriteAll replaces the workbook with a fresh one holding only the given records.
func (s *XLSXStore) OverwriteAll(ctx context.Context, records []training.WorkoutRecord) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "storage.xlsx.overwriteAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("path", s.path),
		attribute.Int("records", len(records)),
	)

	f := excelize.NewFile()
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if s.worksheet != DefaultWorksheet {
		if err := f.SetSheetName(DefaultWorksheet, s.worksheet); err != nil {
			return fmt.Errorf("rename worksheet: %w", err)
		}
	}

	for i, row := range EncodeRows(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(s.worksheet, cell, &row); err != nil {
			return fmt.Errorf("set row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	return nil
}
