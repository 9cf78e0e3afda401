package export

import (
	"testing"
	"time"

	"armancoffee/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestOrdersReport(t *testing.T) {
	exporter := NewExporter(t.TempDir())

	orders := []models.Order{
		{
			ID:        "o1",
			OrderType: models.OrderTypeDineIn,
			Phone:     "79001234567",
			TableID:   "t1",
			Items: []models.OrderItem{
				{Name: "Latte", Qty: 2, UnitPrice: 150},
				{Name: "Cheesecake", Qty: 1, UnitPrice: 220.50},
			},
			Total:         520.50,
			Status:        models.StatusConfirmed,
			PaymentStatus: models.PaymentPaid,
			CreatedAt:     time.Date(2026, 9, 10, 12, 30, 0, 0, time.UTC),
		},
	}

	path, err := exporter.OrdersReport(orders, "2026-09-01", "2026-09-30")
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)

	assert.Equal(t, "o1", rows[2][0])
	assert.Equal(t, "2x Latte @ 150.00; 1x Cheesecake @ 220.50", rows[2][5])
}

func TestBookingsReport(t *testing.T) {
	exporter := NewExporter(t.TempDir())

	bookings := []models.Booking{
		{ID: "b1", Date: "2026-09-10", Time: "19:30", Name: "Arman",
			Phone: "79001234567", PartySize: 4, Status: models.StatusConfirmed},
	}

	path, err := exporter.BookingsReport(bookings, "2026-09-01", "2026-09-30")
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "Arman", rows[2][3])
}

func TestOrdersReport_Empty(t *testing.T) {
	exporter := NewExporter(t.TempDir())

	path, err := exporter.OrdersReport(nil, "2026-09-01", "2026-09-30")
	require.NoError(t, err)
	assert.FileExists(t, path)
}
