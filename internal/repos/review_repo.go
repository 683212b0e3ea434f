package repos

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hostelmart/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// EligiblePair is a completed order line the buyer has not yet reviewed.
type EligiblePair struct {
	OrderID    string `db:"order_id" json:"orderId"`
	SellerID   string `db:"seller_id" json:"sellerId"`
	SellerName string `db:"seller_name" json:"sellerName"`
	Title      string `db:"title" json:"title"`
}

func (r *ReviewRepo) Eligible(buyerID string) ([]EligiblePair, error) {
	var out []EligiblePair
	err := r.db.Select(&out, `
		SELECT o.id AS order_id, o.seller_id, u.name AS seller_name, p.title
		FROM orders o
		JOIN users u    ON u.id = o.seller_id
		JOIN products p ON p.id = o.product_id
		WHERE o.buyer_id = ? AND o.status = 'COMPLETED'
		  AND NOT EXISTS (
		    SELECT 1 FROM reviews rv
		    WHERE rv.order_id = o.id AND rv.seller_id = o.seller_id AND rv.status = 'ACTIVE'
		  )
		ORDER BY datetime(o.completed_at) DESC
	`, buyerID)
	return out, err
}

// Create inserts an ACTIVE review; the partial unique index on
// (order_id, seller_id) backs the one-review-per-pair rule under races.
func (r *ReviewRepo) Create(rv domain.Review) error {
	_, err := r.db.Exec(`
		INSERT INTO reviews(id, order_id, seller_id, buyer_id, rating, comment, status)
		VALUES(?, ?, ?, ?, ?, ?, 'ACTIVE')
	`, uuid.NewString(), rv.OrderID, rv.SellerID, rv.BuyerID, rv.Rating, rv.Comment)
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return domain.ErrAlreadyReviewed
	}
	return err
}

func (r *ReviewRepo) HasActive(orderID, sellerID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `
		SELECT COUNT(*) FROM reviews
		WHERE order_id = ? AND seller_id = ? AND status = 'ACTIVE'
	`, orderID, sellerID)
	return n > 0, err
}

type SellerReviewRow struct {
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	BuyerName string `db:"buyer_name" json:"buyerName"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

func (r *ReviewRepo) ListForSeller(sellerID string, limit int) ([]SellerReviewRow, float64, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []SellerReviewRow
	if err := r.db.Select(&out, `
		SELECT rv.rating, rv.comment, u.name AS buyer_name, rv.created_at
		FROM reviews rv JOIN users u ON u.id = rv.buyer_id
		WHERE rv.seller_id = ? AND rv.status = 'ACTIVE'
		ORDER BY datetime(rv.created_at) DESC
		LIMIT ?
	`, sellerID, limit); err != nil {
		return nil, 0, err
	}
	var avg float64
	if err := r.db.Get(&avg, `
		SELECT COALESCE(AVG(rating),0) FROM reviews WHERE seller_id = ? AND status = 'ACTIVE'
	`, sellerID); err != nil {
		return nil, 0, err
	}
	return out, avg, nil
}
