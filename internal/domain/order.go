package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMercadoPago    PaymentMethod = "mercado_pago"
	PaymentTransfer       PaymentMethod = "transfer"
	PaymentCashOnDelivery PaymentMethod = "cod"
)

type Customer struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type BillingAddress struct {
	SameAsShipping bool   `json:"sameAsShipping"`
	Street         string `json:"street,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	ZipCode        string `json:"zipCode,omitempty"`
}

// OrderItem is a line frozen onto an order. Variant carries the
// human-readable "color-size" label of the purchased variant.
type OrderItem struct {
	ProductID string `json:"product"`
	Name      string `json:"name,omitempty"`
	Variant   string `json:"variant,omitempty"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"price"`
	Total     int64  `json:"total"`
}

// OrderCoupon freezes the coupon applied to an order, including the
// discount amount computed at order time.
type OrderCoupon struct {
	Code           string       `json:"code"`
	DiscountType   DiscountType `json:"discountType"`
	DiscountValue  int64        `json:"discountValue"`
	DiscountAmount int64        `json:"discountAmount"`
}

// Order is immutable once created except for status transitions.
type Order struct {
	ID              string         `json:"id"`
	OrderNumber     string         `json:"orderNumber"`
	Customer        Customer       `json:"customer"`
	ShippingAddress Address        `json:"shippingAddress"`
	BillingAddress  BillingAddress `json:"billingAddress"`
	Items           []OrderItem    `json:"items"`
	Subtotal        int64          `json:"subtotal"`
	Coupon          *OrderCoupon   `json:"coupon,omitempty"`
	Shipping        int64          `json:"shipping"`
	Tax             int64          `json:"tax"`
	Total           int64          `json:"total"`
	Status          OrderStatus    `json:"status"`
	PaymentStatus   PaymentStatus  `json:"paymentStatus"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
	Notes           string         `json:"notes,omitempty"`
	IdempotencyKey  string         `json:"-"`
	CreatedAt       time.Time      `json:"createdAt"`
}

// CanTransition reports whether an order may move from one status to
// another. The forward chain is pending -> processing -> shipped ->
// delivered; cancelled and refunded are reachable from any non-terminal
// state. Delivered, cancelled and refunded are terminal.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return false
	}
	switch from {
	case OrderDelivered, OrderCancelled, OrderRefunded:
		return false
	}
	switch to {
	case OrderCancelled, OrderRefunded:
		return true
	case OrderProcessing:
		return from == OrderPending
	case OrderShipped:
		return from == OrderProcessing
	case OrderDelivered:
		return from == OrderShipped
	default:
		return false
	}
}
