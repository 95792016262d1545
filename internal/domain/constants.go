package domain

const (
	RoleCustomer = "CUSTOMER"
	RoleCourier  = "COURIER"
	RoleAdmin    = "ADMIN"
)

const (
	OrderStatusPendingPayment = "PENDING_PAYMENT"
	OrderStatusPaid           = "PAID"
	OrderStatusPreparing      = "PREPARING"
	OrderStatusDelivering     = "DELIVERING"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusCancelled = "CANCELLED"
)

const (
	NotifTypePayment = "PAYMENT"
	NotifTypeOrder   = "ORDER"
)

// Currency is fixed; CamPay only collects XAF.
const Currency = "XAF"
