package services

import (
	"database/sql"

	"hostelmart/internal/domain"
	"hostelmart/internal/repos"
)

// ReviewService enforces review eligibility: one active review per
// (order, seller) pair, only after the order has completed.
type ReviewService struct {
	Reviews *repos.ReviewRepo
	Orders  *repos.OrderRepo
}

func NewReviewService(reviews *repos.ReviewRepo, orders *repos.OrderRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Orders: orders}
}

func (s *ReviewService) EligibleSellers(buyerID string) ([]repos.EligiblePair, error) {
	return s.Reviews.Eligible(buyerID)
}

func (s *ReviewService) Submit(buyerID, orderID, sellerID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}

	o, err := s.Orders.Get(orderID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrNotCompleted
		}
		return err
	}
	if o.BuyerID != buyerID || o.SellerID != sellerID || o.Status != domain.OrderCompleted {
		return domain.ErrNotCompleted
	}

	// The unique index catches the race two concurrent submissions create;
	// Create maps it to ErrAlreadyReviewed.
	return s.Reviews.Create(domain.Review{
		OrderID:  orderID,
		SellerID: sellerID,
		BuyerID:  buyerID,
		Rating:   rating,
		Comment:  comment,
	})
}

func (s *ReviewService) ForSeller(sellerID string, limit int) ([]repos.SellerReviewRow, float64, error) {
	return s.Reviews.ListForSeller(sellerID, limit)
}
