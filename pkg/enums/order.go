package enums

type OrderStatus string

const (
	OrderPending      OrderStatus = "Pending"
	OrderConfirmed    OrderStatus = "Confirmed"
	OrderInProduction OrderStatus = "In Production"
	OrderReady        OrderStatus = "Ready"
	OrderDelivered    OrderStatus = "Delivered"
	OrderCancelled    OrderStatus = "Cancelled"
)

func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderPending,
		OrderConfirmed,
		OrderInProduction,
		OrderReady,
		OrderDelivered,
		OrderCancelled,
	}
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string { return string(s) }

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}
