package services

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"

	"hostelmart/internal/domain"
	"hostelmart/internal/repos"
)

// CheckoutService turns a verified payment plus the buyer's cart into one
// PENDING order per cart line. The split itself is a single transaction in
// OrderRepo.PlaceGroup: all orders are created and all stock decremented,
// or nothing is.
type CheckoutService struct {
	Payment *PaymentService
	Orders  *repos.OrderRepo
	Users   *repos.UserRepo
}

func NewCheckoutService(payment *PaymentService, orders *repos.OrderRepo, users *repos.UserRepo) *CheckoutService {
	return &CheckoutService{Payment: payment, Orders: orders, Users: users}
}

// Checkout verifies the gateway callback, resolves the delivery address and
// splits the cart. hostel/room override the buyer's profile when non-empty.
func (s *CheckoutService) Checkout(buyerID, gatewayOrderID, gatewayPaymentID, signature, hostel, room string) ([]domain.Order, error) {
	if !s.Payment.VerifyCallback(gatewayOrderID, gatewayPaymentID, signature) {
		return nil, domain.ErrPaymentNotVerified
	}

	intent, err := s.Payment.Payments.Get(gatewayOrderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPaymentNotVerified
		}
		return nil, err
	}
	if intent.BuyerID != buyerID {
		return nil, domain.ErrPaymentNotVerified
	}

	if hostel == "" || room == "" {
		u, err := s.Users.ByID(buyerID)
		if err != nil {
			return nil, err
		}
		if hostel == "" {
			hostel = u.Hostel
		}
		if room == "" {
			room = u.Room
		}
	}
	if hostel == "" {
		return nil, domain.ErrMixedDeliveryZone
	}

	cart := s.Payment.Cart
	return s.Orders.PlaceGroup(gatewayOrderID, buyerID, hostel, room,
		cart.DeliveryFee, cart.TaxRate, newVerificationCode)
}

// newVerificationCode draws a 6-digit one-time delivery code.
func newVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}
