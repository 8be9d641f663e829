package reconcile

// EventStopCompleted is the only event type the reconciler acts on.
const EventStopCompleted = "stop.completed"

// Event is a StopSuite webhook payload.
type Event struct {
	Event             string `json:"event"`
	ExternalReference string `json:"external_reference"`
	Stop              *Stop  `json:"stop"`
}

// Stop is the completed delivery visit.
type Stop struct {
	ID                int64          `json:"id"`
	ExternalReference string         `json:"external_reference"`
	Order             int64          `json:"order"`
	DriverActions     []DriverAction `json:"driver_actions"`
}

// DriverAction is one recorded action at a stop; its notes sometimes carry
// the only surviving reference to the Shopify order.
type DriverAction struct {
	ID    int64  `json:"id"`
	Notes string `json:"notes"`
}

// Outcome reports what the reconciler did with an event. Every outcome is a
// 200 to the sender; a missing reference is an expected result, not a defect.
type Outcome struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	OrderID int64  `json:"order_id,omitempty"`
	Legacy  bool   `json:"legacy,omitempty"`
}

const (
	OutcomeIgnored     = "ignored"
	OutcomeNoReference = "no_reference"
	OutcomeFulfilled   = "fulfilled"
)
