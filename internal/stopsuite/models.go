package stopsuite

// CustomerPayload creates or syncs a customer record.
type CustomerPayload struct {
	Name           string `json:"name"`
	ContactName    string `json:"contact_name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billing_address"`
	BillingCity    string `json:"billing_city"`
	BillingState   string `json:"billing_state"`
	BillingZip     string `json:"billing_zip"`
	BillingMethod  string `json:"billing_method"`
	Notes          string `json:"notes"`
}

// Position is a lat/lng pair.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationPayload creates a customer location.
type LocationPayload struct {
	Customer int64    `json:"customer"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Zip      string   `json:"zip"`
	Position Position `json:"position"`
	Nickname string   `json:"nickname"`
	Status   string   `json:"status"`
}

// ShopOrderProduct is one product line of a shop order.
type ShopOrderProduct struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	OptionID  int64 `json:"option_id"` // required by the API schema, always 0
}

// ShopOrderPayload creates a shop order against a customer location.
type ShopOrderPayload struct {
	Products           []ShopOrderProduct `json:"products"`
	CustomerLocationID int64              `json:"customer_location_id"`
	DeliveryNotes      string             `json:"delivery_notes"`
}

// DriverActionPayload attaches a stop for a customer location to a route.
type DriverActionPayload struct {
	Route                   int64  `json:"route"`
	CustomerLocation        int64  `json:"customer_location"`
	Notes                   string `json:"notes"`
	SuppressServiceReminder bool   `json:"suppress_service_reminders"`
	SuppressServiceRecords  bool   `json:"suppress_service_records"`
}

// Route is a summary entry from the route list endpoint.
type Route struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Complete  bool   `json:"complete"`
	Cancelled bool   `json:"cancelled"`
}

// RouteDetail is the full route record, including its stops.
type RouteDetail struct {
	Route
	Stops []RouteStop `json:"stops"`
}

// RouteStop is one scheduled stop on a route.
type RouteStop struct {
	ID                int64  `json:"id"`
	ExternalReference string `json:"external_reference"`
	Order             int64  `json:"order"`
}

// ZoneResult is the outcome of a service-area containment check.
type ZoneResult struct {
	Inside   bool
	ZoneName string
}
