package services

import (
	"hostelmart/internal/domain"
	"hostelmart/internal/gateway"
	"hostelmart/internal/repos"
)

// PaymentService opens gateway orders for cart totals and verifies the
// completion callback before any order may be created.
type PaymentService struct {
	Gateway  gateway.Client
	Payments *repos.PaymentRepo
	Cart     *CartService
	Secret   string
	Currency string
}

func NewPaymentService(gw gateway.Client, payments *repos.PaymentRepo, cart *CartService, secret, currency string) *PaymentService {
	return &PaymentService{Gateway: gw, Payments: payments, Cart: cart, Secret: secret, Currency: currency}
}

// CreateIntent opens a gateway order for the buyer's current cart total and
// records the intent. One intent maps to exactly one checkout attempt.
func (s *PaymentService) CreateIntent(buyerID string) (domain.PaymentIntent, error) {
	cv, err := s.Cart.View(buyerID)
	if err != nil {
		return domain.PaymentIntent{}, err
	}
	if len(cv.Lines) == 0 {
		return domain.PaymentIntent{}, domain.ErrCartEmpty
	}

	gwOrder, err := s.Gateway.CreateOrder(cv.Total, s.Currency)
	if err != nil {
		return domain.PaymentIntent{}, err
	}

	intent := domain.PaymentIntent{
		GatewayOrderID: gwOrder.ID,
		BuyerID:        buyerID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		Status:         domain.IntentCreated,
	}
	if err := s.Payments.Create(intent); err != nil {
		return domain.PaymentIntent{}, err
	}
	return intent, nil
}

// VerifyCallback checks the gateway callback signature in constant time and
// marks the intent verified. Returns false on any mismatch; it never errors
// on bad input, so callers treat false as "payment not verified".
func (s *PaymentService) VerifyCallback(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if !gateway.VerifySignature(s.Secret, gatewayOrderID, gatewayPaymentID, signature) {
		return false
	}
	if err := s.Payments.MarkVerified(gatewayOrderID); err != nil {
		return false
	}
	return true
}
