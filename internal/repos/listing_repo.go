package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"hostelmart/internal/domain"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

// ListingRow joins the product title and seller hostel for display and for
// the checkout's delivery-zone check.
type ListingRow struct {
	ID           string  `db:"id" json:"id"`
	SellerID     string  `db:"seller_id" json:"sellerId"`
	SellerName   string  `db:"seller_name" json:"sellerName"`
	SellerHostel string  `db:"seller_hostel" json:"sellerHostel"`
	SellerBanned bool    `db:"seller_banned" json:"-"`
	ProductID    string  `db:"product_id" json:"productId"`
	Title        string  `db:"title" json:"title"`
	Price        float64 `db:"price" json:"price"`
	Stock        int     `db:"stock" json:"stock"`
	Active       bool    `db:"active" json:"active"`
}

const listingSelect = `
	SELECT l.id, l.seller_id, u.name AS seller_name, u.hostel AS seller_hostel,
	       u.banned AS seller_banned, l.product_id, p.title, l.price, l.stock, l.active
	FROM seller_listings l
	JOIN users u    ON u.id = l.seller_id
	JOIN products p ON p.id = l.product_id`

func (r *ListingRepo) Get(id string) (ListingRow, error) {
	var l ListingRow
	err := r.db.Get(&l, listingSelect+` WHERE l.id = ?`, id)
	return l, err
}

func (r *ListingRepo) ListActive(limit, offset int) ([]ListingRow, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []ListingRow
	err := r.db.Select(&out, listingSelect+`
		WHERE l.active = 1 AND u.banned = 0 AND p.active = 1
		ORDER BY p.title, l.price
		LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}

func (r *ListingRepo) ListBySeller(sellerID string) ([]ListingRow, error) {
	var out []ListingRow
	err := r.db.Select(&out, listingSelect+`
		WHERE l.seller_id = ?
		ORDER BY p.title`, sellerID)
	return out, err
}

// Stock returns current stock for a listing.
func (r *ListingRepo) Stock(listingID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT stock FROM seller_listings WHERE id = ?`, listingID)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// DecrementStock atomically subtracts "by" units if enough stock exists.
// Checkout calls the tx variant; this one serves single-row paths.
func (r *ListingRepo) DecrementStock(listingID string, by int) error {
	return decrementStock(r.db, listingID, by)
}

// RestockStock adds units back after a rejection or cancellation.
func (r *ListingRepo) RestockStock(listingID string, by int) error {
	return restockStock(r.db, listingID, by)
}

func decrementStock(e sqlx.Execer, listingID string, by int) error {
	res, err := e.Exec(`
		UPDATE seller_listings
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?
	`, by, listingID, by)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("insufficient stock for listing %s", listingID)
	}
	return nil
}

func restockStock(e sqlx.Execer, listingID string, by int) error {
	_, err := e.Exec(`
		UPDATE seller_listings
		SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, by, listingID)
	return err
}

// Upsert creates the seller's listing for a product. On conflict only price
// and active are replaced; stock is never overwritten absolutely here since
// a decrement or restock may be in flight (AdjustStock handles stock).
func (r *ListingRepo) Upsert(l domain.SellerListing) error {
	_, err := r.db.Exec(`
		INSERT INTO seller_listings(id, seller_id, product_id, price, stock, active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(seller_id, product_id) DO UPDATE SET
		  price = excluded.price,
		  active = excluded.active,
		  updated_at = CURRENT_TIMESTAMP
	`, l.ID, l.SellerID, l.ProductID, l.Price, l.Stock, l.Active)
	return err
}

// SetPrice updates price only, never touching stock.
func (r *ListingRepo) SetPrice(listingID, sellerID string, price float64) error {
	res, err := r.db.Exec(`
		UPDATE seller_listings SET price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ?
	`, price, listingID, sellerID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("listing %s not owned by seller", listingID)
	}
	return nil
}

// AdjustStock applies a relative stock change (may be negative); negative
// adjustments are conditional so stock cannot go below zero.
func (r *ListingRepo) AdjustStock(listingID, sellerID string, delta int) error {
	if delta >= 0 {
		res, err := r.db.Exec(`
			UPDATE seller_listings SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND seller_id = ?
		`, delta, listingID, sellerID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("listing %s not owned by seller", listingID)
		}
		return nil
	}
	res, err := r.db.Exec(`
		UPDATE seller_listings SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ? AND stock >= ?
	`, delta, listingID, sellerID, -delta)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("insufficient stock for adjustment on %s", listingID)
	}
	return nil
}
