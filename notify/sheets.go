package notify

import (
	"context"
	"os"
	"time"

	"earning-bot/apperrors"
	"earning-bot/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetRecorder appends every withdrawal request as a row of a Google
// Sheet so the payout team can work through them.
type SheetRecorder struct {
	srv           *sheets.Service
	spreadsheetID string
	writeRange    string
}

// NewSheetRecorder authenticates with a service-account JSON key file.
func NewSheetRecorder(ctx context.Context, credentialsFile, spreadsheetID, writeRange string) (*SheetRecorder, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, apperrors.Upstream("read sheets credentials", err)
	}
	config, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, apperrors.Upstream("parse sheets credentials", err)
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, apperrors.Upstream("sheets service", err)
	}
	return newSheetRecorder(srv, spreadsheetID, writeRange), nil
}

func newSheetRecorder(srv *sheets.Service, spreadsheetID, writeRange string) *SheetRecorder {
	return &SheetRecorder{srv: srv, spreadsheetID: spreadsheetID, writeRange: writeRange}
}

func (r *SheetRecorder) Record(ctx context.Context, req models.WithdrawalRequest) error {
	row := []interface{}{
		req.Date.UTC().Format(time.RFC3339),
		req.UserID,
		req.Name,
		req.Email,
		req.Amount.String(),
		req.UPI,
		string(req.Status),
	}
	_, err := r.srv.Spreadsheets.Values.Append(
		r.spreadsheetID,
		r.writeRange,
		&sheets.ValueRange{Values: [][]interface{}{row}},
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return apperrors.Upstream("append withdrawal row", err)
	}
	return nil
}
