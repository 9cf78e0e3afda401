package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"armancoffee/internal/database"
	"armancoffee/internal/models"
	"armancoffee/internal/service"
)

func (s *HTTPServer) handleMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	categories, err := s.services.Menu.Fetch(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if categories == nil {
		categories = []models.MenuCategory{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type menuImportItem struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Price       float64             `json:"price"`
	Image       string              `json:"image,omitempty"`
	Options     map[string][]string `json:"options,omitempty"`
	Disabled    bool                `json:"disabled,omitempty"`
}

type menuImportCategory struct {
	Name      string           `json:"name"`
	Slug      string           `json:"slug"`
	SortOrder *int64           `json:"sort_order,omitempty"`
	Items     []menuImportItem `json:"items"`
}

func (s *HTTPServer) handleMenuImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Categories []menuImportCategory `json:"categories"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	categories := make([]models.MenuCategory, 0, len(body.Categories))
	for i, in := range body.Categories {
		sortOrder := int64(i)
		if in.SortOrder != nil {
			sortOrder = *in.SortOrder
		}
		cat := models.MenuCategory{
			Name:      in.Name,
			Slug:      in.Slug,
			SortOrder: sortOrder,
			IsActive:  true,
		}
		for _, item := range in.Items {
			cat.Items = append(cat.Items, models.MenuItem{
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price,
				Image:       item.Image,
				Options:     item.Options,
				IsActive:    !item.Disabled,
			})
		}
		categories = append(categories, cat)
	}

	if err := s.services.Menu.Import(r.Context(), categories); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	debugCode, err := s.services.Auth.SendOTP(r.Context(), body.Phone)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := map[string]any{"sent": true}
	if debugCode != "" {
		resp["debug_code"] = debugCode
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
		Name  string `json:"name,omitempty"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	customer, err := s.services.Auth.VerifyOTP(r.Context(), body.Phone, body.Code, body.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *HTTPServer) handleCustomer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	phone := strings.TrimPrefix(r.URL.Path, "/customers/")
	if phone == "" || strings.Contains(phone, "/") {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	customer, err := s.services.Auth.GetCustomer(r.Context(), phone)
	if errors.Is(err, database.ErrNotFound) {
		// an unknown phone is not an error for this endpoint
		writeJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *HTTPServer) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req service.CreateOrderRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		order, err := s.services.Orders.Create(r.Context(), &req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, order)

	case http.MethodGet:
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		phone := strings.TrimSpace(r.URL.Query().Get("phone"))
		orders, err := s.services.Orders.List(r.Context(), status, phone)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		if orders == nil {
			orders = []models.Order{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/orders/")
	id, ok := strings.CutSuffix(rest, "/status")
	if !ok || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.services.Orders.UpdateStatus(r.Context(), id, body.Status); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handlePaymentCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		OrderID string  `json:"order_id"`
		Gateway string  `json:"gateway,omitempty"`
		Amount  float64 `json:"amount,omitempty"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	payment, err := s.services.Payments.Create(r.Context(), body.OrderID, body.Gateway, body.Amount)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (s *HTTPServer) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if s.webhookSecret != "" {
		if !verifySignature(raw, r.Header.Get(signatureHeader), s.webhookSecret) {
			writeError(w, http.StatusUnauthorized, "invalid webhook signature")
			return
		}
	}

	var body struct {
		PID    string `json:"pid"`
		Status string `json:"status,omitempty"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.PID == "" {
		writeError(w, http.StatusBadRequest, "pid is required")
		return
	}

	if _, err := s.services.Payments.ApplyWebhook(r.Context(), body.PID, body.Status); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req service.CreateBookingRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		booking, err := s.services.Bookings.Create(r.Context(), &req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, booking)

	case http.MethodGet:
		bookings, err := s.services.Bookings.List(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		if bookings == nil {
			bookings = []models.Booking{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/bookings/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	if err := s.services.Bookings.Cancel(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *HTTPServer) handleTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tables, err := s.services.Tables.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if tables == nil {
		tables = []models.Table{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func (s *HTTPServer) handleTableStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	statuses, err := s.services.Tables.Statuses(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *HTTPServer) handleAdminTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		TableNumber int64 `json:"table_number"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	table, err := s.services.Tables.Create(r.Context(), body.TableNumber)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, table)
}

func (s *HTTPServer) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	taskType := strings.TrimPrefix(r.URL.Path, "/admin/export/")
	if taskType == "" || strings.Contains(taskType, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if !models.ValidExportTaskType(taskType) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown export task type %q", taskType))
		return
	}

	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if _, err := time.Parse("2006-01-02", body.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date; expected YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("2006-01-02", body.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date; expected YYYY-MM-DD")
		return
	}

	if err := s.services.Exports.EnqueueExport(r.Context(), taskType, body.StartDate, body.EndDate); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}

// writeServiceError maps service/store errors to HTTP status codes.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrCodeMismatch),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrItemUnavailable):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
