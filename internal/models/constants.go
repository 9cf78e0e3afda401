package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

const (
	PaymentStatusCreated = "created"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeaway = "takeaway"
)

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
)

const (
	// MaxOrdersPerList ограничение размера ответа при листинге заказов
	MaxOrdersPerList = 200

	// OTPCodeLength длина одноразового кода
	OTPCodeLength = 6

	// OTPTTLSeconds время жизни одноразового кода
	OTPTTLSeconds = 300

	// OTPRateLimit количество отправок кода в окне на один телефон
	OTPRateLimit = 5

	// OTPRateWindow окно ограничения отправок кода
	OTPRateWindow = 600 // 10 минут в секундах

	// PhoneMinDigits и PhoneMaxDigits границы длины номера телефона
	PhoneMinDigits = 10
	PhoneMaxDigits = 15

	// ExportQueueSize размер очереди задач экспорта
	ExportQueueSize = 100

	// ExportTaskOrders и ExportTaskBookings типы задач экспорта
	ExportTaskOrders   = "orders"
	ExportTaskBookings = "bookings"
)

// ValidOrderStatus reports whether s belongs to the closed order status set.
// Unknown strings are rejected at the boundary rather than persisted.
func ValidOrderStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// ValidOrderType reports whether t is a known order type.
func ValidOrderType(t string) bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeaway
}

// ValidExportTaskType reports whether t names a known report kind.
func ValidExportTaskType(t string) bool {
	return t == ExportTaskOrders || t == ExportTaskBookings
}
