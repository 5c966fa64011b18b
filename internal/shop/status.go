package shop

type Status string

// Pending is the only status current transitions ever set: an order is
// Pending from checkout until it is deleted by cancellation. Shipped and
// delivered states would have to be added here together with their
// transitions.
const (
	StatusPending Status = "Pending"
)
