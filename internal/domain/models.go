package domain

type Product struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Active      bool   `db:"active"`
	CreatedAt   string `db:"created_at"`
}

// SellerListing is one seller's price/stock offer for a catalog product.
// Stock is only ever changed through the conditional decrement/restock
// queries in ListingRepo.
type SellerListing struct {
	ID        string  `db:"id"`
	SellerID  string  `db:"seller_id"`
	ProductID string  `db:"product_id"`
	Price     float64 `db:"price"`
	Stock     int     `db:"stock"`
	Active    bool    `db:"active"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

// PaymentIntent statuses.
const (
	IntentCreated  = "CREATED"
	IntentVerified = "VERIFIED"
	IntentConsumed = "CONSUMED" // a checkout has been produced from it
)

type PaymentIntent struct {
	GatewayOrderID string  `db:"gateway_order_id"`
	BuyerID        string  `db:"buyer_id"`
	Amount         float64 `db:"amount"`
	Currency       string  `db:"currency"`
	Status         string  `db:"status"`
	CreatedAt      string  `db:"created_at"`
}

// Order statuses.
const (
	OrderPending   = "PENDING"
	OrderAccepted  = "ACCEPTED"
	OrderRejected  = "REJECTED"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

// Order is one seller-listing-quantity fulfillment unit created at checkout.
// Immutable after creation except status, timestamps and is_verified.
type Order struct {
	ID             string  `db:"id"`
	PaymentGroupID string  `db:"payment_group_id"`
	BuyerID        string  `db:"buyer_id"`
	ListingID      string  `db:"listing_id"`
	SellerID       string  `db:"seller_id"`
	ProductID      string  `db:"product_id"`
	Qty            int     `db:"qty"`
	UnitPrice      float64 `db:"unit_price"`
	TotalPrice     float64 `db:"total_price"`
	Status         string  `db:"status"`
	// RequiresVerification is false only for orders that predate delivery
	// codes; those complete directly via the status endpoint.
	RequiresVerification bool   `db:"requires_verification"`
	VerificationCode     string `db:"verification_code"`
	IsVerified           bool   `db:"is_verified"`
	DeliveryHostel       string `db:"delivery_hostel"`
	DeliveryRoom         string `db:"delivery_room"`
	CreatedAt            string `db:"created_at"`
	AcceptedAt           string `db:"accepted_at"`
	CompletedAt          string `db:"completed_at"`
	CancelledAt          string `db:"cancelled_at"`
}

type Review struct {
	ID        string `db:"id"`
	OrderID   string `db:"order_id"`
	SellerID  string `db:"seller_id"`
	BuyerID   string `db:"buyer_id"`
	Rating    int    `db:"rating"`
	Comment   string `db:"comment"`
	Status    string `db:"status"` // ACTIVE | REMOVED
	CreatedAt string `db:"created_at"`
}

// Notification types.
const (
	NotifyNewOrder       = "NEW_ORDER"
	NotifyOrderAccepted  = "ORDER_ACCEPTED"
	NotifyOrderRejected  = "ORDER_REJECTED"
	NotifyOrderCancelled = "ORDER_CANCELLED"
	NotifyOrderCompleted = "ORDER_COMPLETED"
)

type Notification struct {
	ID          string `db:"id" json:"id"`
	RecipientID string `db:"recipient_id" json:"-"`
	Type        string `db:"type" json:"type"`
	Message     string `db:"message" json:"message"`
	Read        bool   `db:"read" json:"read"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
}
