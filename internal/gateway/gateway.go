package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// GatewayOrder is what the payment gateway returns when a checkout
// transaction is opened for a cart total.
type GatewayOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Client opens gateway orders. The client-side checkout flow posts back
// {gatewayOrderId, gatewayPaymentId, signature} which the engine verifies
// with Signature below.
type Client interface {
	CreateOrder(amount float64, currency string) (GatewayOrder, error)
}

// Signature computes the callback HMAC: SHA-256 over "orderID|paymentID"
// keyed with the gateway secret, hex-encoded.
func Signature(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares a submitted signature in constant time.
func VerifySignature(secret, gatewayOrderID, gatewayPaymentID, submitted string) bool {
	expected := Signature(secret, gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(submitted))
}

// Sandbox is a local gateway for development and tests. Orders succeed
// unconditionally; the real gateway client shares the Client interface.
type Sandbox struct {
	KeyID string
}

func NewSandbox(keyID string) *Sandbox { return &Sandbox{KeyID: keyID} }

func (s *Sandbox) CreateOrder(amount float64, currency string) (GatewayOrder, error) {
	return GatewayOrder{
		ID:       "order_" + uuid.NewString(),
		Amount:   amount,
		Currency: currency,
	}, nil
}
