package shopify

// Order is the shape of the orders/create webhook payload (and of the REST
// order record), reduced to the fields the sync pipeline consumes.
type Order struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Note            string         `json:"note"`
	Customer        *Customer      `json:"customer"`
	BillingAddress  *Address       `json:"billing_address"`
	ShippingAddress *Address       `json:"shipping_address"`
	LineItems       []LineItem     `json:"line_items"`
	ShippingLines   []ShippingLine `json:"shipping_lines"`
}

type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Address struct {
	Address1  string  `json:"address1"`
	Address2  string  `json:"address2"`
	City      string  `json:"city"`
	Province  string  `json:"province"`
	Zip       string  `json:"zip"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LineItem struct {
	ID        int64  `json:"id"`
	SKU       string `json:"sku"`
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type ShippingLine struct {
	Title string `json:"title"`
	Code  string `json:"code"`
}

// FulfillmentOrder groups the line items of an order that a specific
// location is eligible to fulfill.
type FulfillmentOrder struct {
	ID        int64                      `json:"id"`
	Status    string                     `json:"status"`
	LineItems []FulfillmentOrderLineItem `json:"line_items"`
}

type FulfillmentOrderLineItem struct {
	ID         int64 `json:"id"`
	LineItemID int64 `json:"line_item_id"`
	Quantity   int64 `json:"quantity"`
}

// TrackingInfo is attached to a fulfillment so the buyer can follow the stop.
type TrackingInfo struct {
	Number  string `json:"number"`
	Company string `json:"company"`
	URL     string `json:"url"`
}

// FulfillmentOrderRef scopes a fulfillment to one fulfillment order.
type FulfillmentOrderRef struct {
	FulfillmentOrderID int64 `json:"fulfillment_order_id"`
}

// FulfillmentRequest is the modern fulfillment-orders payload.
type FulfillmentRequest struct {
	TrackingInfo                TrackingInfo          `json:"tracking_info"`
	LineItemsByFulfillmentOrder []FulfillmentOrderRef `json:"line_items_by_fulfillment_order"`
	NotifyCustomer              bool                  `json:"notify_customer"`
}

// LegacyLineItem is one line of a classic per-order fulfillment.
type LegacyLineItem struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

// LegacyFulfillmentRequest is the classic per-order fulfillment payload, used
// for orders that predate the fulfillment-orders API.
type LegacyFulfillmentRequest struct {
	LocationID     int64            `json:"location_id"`
	NotifyCustomer bool             `json:"notify_customer"`
	TrackingInfo   TrackingInfo     `json:"tracking_info"`
	LineItems      []LegacyLineItem `json:"line_items"`
}

// RoutingStatus summarizes whether Shopify has finished routing an order to
// a fulfillment location.
type RoutingStatus struct {
	Name                  string
	FinancialStatus       string
	FulfillmentStatus     string
	HasPhysicalLocation   bool
	PhysicalLocationName  string
	FulfillmentOrderCount int
}

// Ready reports whether the order can be synced: at least one fulfillment
// order exists and a physical location is assigned.
func (s *RoutingStatus) Ready() bool {
	return s != nil && s.FulfillmentOrderCount > 0 && s.HasPhysicalLocation
}
