package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"casaspese/internal/core"
	"casaspese/internal/log"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config selects the target spreadsheet and the credentials source. Exactly
// one of ServiceAccountJSON or ServiceAccountFile must be set.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Exporter writes month snapshots to a Google spreadsheet so the household
// keeps a shareable copy outside the app.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

func NewExporter(ctx context.Context, cfg Config, logger *log.Logger) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Expenses"
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentExport),
	}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	if json := strings.TrimSpace(cfg.ServiceAccountJSON); json != "" {
		return []byte(json), nil
	}
	if file := strings.TrimSpace(cfg.ServiceAccountFile); file != "" {
		credentialsJSON, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return credentialsJSON, nil
	}
	return nil, errors.New("missing service account credentials")
}

// ExportMonth replaces the sheet's contents with the month's expenses
// followed by the pending-payments feed.
func (e *Exporter) ExportMonth(ctx context.Context, p core.Period, expenses []core.Expense, feed []core.PaymentStatus) error {
	values := [][]any{
		{"Date", "Description", "Category", "Subcategory", "Amount"},
	}
	for _, exp := range expenses {
		if year, month, ok := core.ParseDate(exp.Date); !ok || !p.Contains(year, month) {
			continue
		}
		values = append(values, []any{
			exp.Date,
			exp.Description,
			exp.CategoryID,
			exp.SubCategoryID,
			formatAmount(exp.Amount),
		})
	}

	if len(feed) > 0 {
		values = append(values, []any{}, []any{"Pending", "Expected", "Paid", "Remaining"})
		for _, ps := range feed {
			values = append(values, []any{
				ps.SubCategoryName,
				formatAmount(ps.ExpectedAmount),
				formatAmount(ps.PaidAmount),
				formatAmount(ps.Remaining()),
			})
		}
	}

	clearRange := e.sheetName + "!A:Z"
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	vr := &gsheet.ValueRange{Values: values}
	_, err := e.svc.Spreadsheets.Values.
		Update(e.spreadsheetID, e.sheetName+"!A1", vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}

	e.logger.InfoContext(ctx, "Month exported",
		log.FieldOperation, log.OpExport,
		log.FieldPeriod, p.Key(),
		"rows", len(values))
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
