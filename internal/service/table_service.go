package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"armancoffee/internal/domain"
	"armancoffee/internal/models"

	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

type TableService struct {
	store         domain.Store
	publicBaseURL string
	logger        *zerolog.Logger
}

func NewTableService(store domain.Store, publicBaseURL string, logger *zerolog.Logger) *TableService {
	return &TableService{store: store, publicBaseURL: publicBaseURL, logger: logger}
}

// Create registers a table and attaches a QR code pointing at the menu with
// the table preselected, so a scan lands a guest on the right order flow.
func (s *TableService) Create(ctx context.Context, tableNumber int64) (*models.Table, error) {
	if tableNumber < 1 {
		return nil, validationf("table_number must be at least 1")
	}

	table := &models.Table{
		TableNumber: tableNumber,
		Status:      models.TableAvailable,
	}
	if err := s.store.CreateTable(ctx, table); err != nil {
		return nil, err
	}

	// QR встраивает id, который генерирует хранилище
	qrData := fmt.Sprintf("%s/menu?table_id=%s", s.publicBaseURL, table.ID)
	png, err := qrcode.Encode(qrData, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	table.QRCode = base64.StdEncoding.EncodeToString(png)
	if err := s.store.SetTableQRCode(ctx, table.ID, table.QRCode); err != nil {
		return nil, err
	}

	s.logger.Info().Str("table_id", table.ID).Int64("number", tableNumber).Msg("table created")
	return table, nil
}

func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	return s.store.ListTables(ctx)
}

// Statuses returns the occupancy projection: table id to occupied/available,
// derived from orders. Tables never referenced by an order are omitted.
func (s *TableService) Statuses(ctx context.Context) (map[string]string, error) {
	return s.store.TableStatuses(ctx)
}
