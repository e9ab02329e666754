package models

// OrderStatus is the lifecycle state of an order.
//
//	pending ──┬──> accepted ──> completed
//	          └──> declined
//
// declined, completed and cancelled are terminal. accepted -> completed is
// driven from outside the worker's order screen.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusDeclined  OrderStatus = "declined"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"

	// StatusConfirmed is a legacy spelling of accepted still found in older
	// records. It is only recognised for display.
	StatusConfirmed OrderStatus = "confirmed"
)

var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:  {StatusAccepted, StatusDeclined},
	StatusAccepted: {StatusCompleted},
}

// IsValid reports whether s is one of the lifecycle states
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s OrderStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

func (s OrderStatus) String() string {
	return string(s)
}

// Badge is the display hint for an order status
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Hex   string `json:"hex"`
}

// Badge returns the colour used to render the status
func (s OrderStatus) Badge() Badge {
	b := Badge{Label: string(s)}
	switch s {
	case StatusPending:
		b.Color, b.Hex = "amber", "#f59e0b"
	case StatusConfirmed, StatusAccepted:
		b.Color, b.Hex = "green", "#10b981"
	case StatusCompleted:
		b.Color, b.Hex = "blue", "#3b82f6"
	case StatusCancelled, StatusDeclined:
		b.Color, b.Hex = "red", "#ef4444"
	default:
		b.Color, b.Hex = "grey", "#6b7280"
	}
	return b
}
