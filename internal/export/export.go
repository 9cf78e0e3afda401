package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"armancoffee/internal/models"

	"github.com/xuri/excelize/v2"
)

// Exporter writes XLSX reports under the configured directory.
type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// OrdersReport writes one row per order for the period and returns the file
// path. Line items are flattened into a single cell.
func (e *Exporter) OrdersReport(orders []models.Order, startDate, endDate string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Orders"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Orders %s - %s", startDate, endDate))

	headers := []string{"ID", "Created", "Type", "Phone", "Table", "Items", "Total", "Status", "Payment"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for row, order := range orders {
		values := []any{
			order.ID,
			order.CreatedAt.Format("2006-01-02 15:04"),
			order.OrderType,
			order.Phone,
			order.TableID,
			formatLines(order.Items),
			order.Total,
			order.Status,
			order.PaymentStatus,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	applyHeaderStyle(f, sheetName, len(headers))
	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "F", "F", 50)
	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(e.dir, fmt.Sprintf("orders_%s_to_%s.xlsx", startDate, endDate))
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return filePath, nil
}

// BookingsReport writes one row per booking for the period.
func (e *Exporter) BookingsReport(bookings []models.Booking, startDate, endDate string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings %s - %s", startDate, endDate))

	headers := []string{"ID", "Date", "Time", "Name", "Phone", "Party", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for row, booking := range bookings {
		values := []any{
			booking.ID,
			booking.Date,
			booking.Time,
			booking.Name,
			booking.Phone,
			booking.PartySize,
			booking.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	applyHeaderStyle(f, sheetName, len(headers))
	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(e.dir, fmt.Sprintf("bookings_%s_to_%s.xlsx", startDate, endDate))
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return filePath, nil
}

func applyHeaderStyle(f *excelize.File, sheetName string, cols int) {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return
	}
	last, _ := excelize.CoordinatesToCellName(cols, 2)
	_ = f.SetCellStyle(sheetName, "A2", last, style)
}

func formatLines(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s @ %.2f", item.Qty, item.Name, item.UnitPrice))
	}
	return strings.Join(parts, "; ")
}
