package services

import (
	"hostelmart/internal/domain"
	"hostelmart/internal/repos"
)

// OrderService drives the order state machine. Every transition is scoped to
// the order's own seller and conditioned on the expected source state inside
// the same UPDATE, so concurrent seller actions cannot both succeed.
type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// Transition applies a seller action. "completed" through here is only valid
// for orders without delivery verification; verified completion goes through
// VerifyCompletion.
func (s *OrderService) Transition(orderID, sellerID, to string) error {
	switch to {
	case domain.OrderAccepted:
		return s.Orders.Accept(orderID, sellerID)
	case domain.OrderRejected:
		return s.Orders.RejectOrCancel(orderID, sellerID, domain.OrderRejected)
	case domain.OrderCancelled:
		return s.Orders.RejectOrCancel(orderID, sellerID, domain.OrderCancelled)
	case domain.OrderCompleted:
		return s.Orders.CompleteLegacy(orderID, sellerID)
	default:
		return domain.ErrInvalidTransition
	}
}

// VerifyCompletion checks the one-time delivery code and completes the order
// in the same operation.
func (s *OrderService) VerifyCompletion(orderID, sellerID, code string) error {
	return s.Orders.VerifyComplete(orderID, sellerID, code)
}

func (s *OrderService) Get(orderID string) (repos.OrderView, error) {
	return s.Orders.Get(orderID)
}

func (s *OrderService) ListForBuyer(buyerID, groupID string) ([]repos.OrderView, error) {
	return s.Orders.ListByBuyer(buyerID, groupID)
}

func (s *OrderService) ListForSeller(sellerID, status string) ([]repos.OrderView, error) {
	return s.Orders.ListBySeller(sellerID, status)
}

// ListAll is the admin view over every seller's orders.
func (s *OrderService) ListAll(status string, limit int) ([]repos.OrderView, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.Orders.ListRecent(status, limit)
}
