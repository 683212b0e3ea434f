package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLineRow is a cart line joined with its listing's live price/stock.
type CartLineRow struct {
	ListingID    string  `db:"listing_id" json:"listingId"`
	SellerID     string  `db:"seller_id" json:"sellerId"`
	SellerName   string  `db:"seller_name" json:"sellerName"`
	SellerHostel string  `db:"seller_hostel" json:"sellerHostel"`
	ProductID    string  `db:"product_id" json:"productId"`
	Title        string  `db:"title" json:"title"`
	Qty          int     `db:"qty" json:"qty"`
	UnitPrice    float64 `db:"unit_price" json:"unitPrice"`
	Stock        int     `db:"stock" json:"stock"`
	Subtotal     float64 `db:"subtotal" json:"subtotal"`
}

// EnsureCart returns the buyer's cart id, creating the cart lazily.
func (r *CartRepo) EnsureCart(buyerID string) (string, error) {
	var cartID string
	if err := r.db.Get(&cartID, `SELECT id FROM carts WHERE buyer_id = ?`, buyerID); err == nil {
		return cartID, nil
	}
	_, err := r.db.Exec(`INSERT INTO carts(id,buyer_id,updated_at) VALUES(?,?,?)`,
		buyerID, buyerID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return buyerID, nil
}

// AddItem adds qty to an existing line or inserts a new one.
func (r *CartRepo) AddItem(cartID, listingID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,listing_id,qty,created_at)
		VALUES(?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,listing_id) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, listingID, qty)
	return err
}

// SetQty replaces a line's quantity outright.
func (r *CartRepo) SetQty(cartID, listingID string, qty int) error {
	_, err := r.db.Exec(`
		UPDATE cart_items SET qty = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cart_id = ? AND listing_id = ?
	`, qty, cartID, listingID)
	return err
}

// Qty returns the current quantity for a line, 0 if absent.
func (r *CartRepo) Qty(cartID, listingID string) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT qty FROM cart_items WHERE cart_id=? AND listing_id=?`, cartID, listingID)
	if err != nil {
		return 0, err
	}
	return qty, nil
}

func (r *CartRepo) RemoveItem(cartID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ? AND listing_id = ?`, cartID, listingID)
	return err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// Lines returns the cart joined with live listing data, in insertion order.
func (r *CartRepo) Lines(cartID string) ([]CartLineRow, error) {
	rows := []CartLineRow{}
	err := r.db.Select(&rows, `
	  SELECT ci.listing_id, l.seller_id, u.name AS seller_name, u.hostel AS seller_hostel,
	         l.product_id, p.title, ci.qty, l.price AS unit_price, l.stock,
	         (ci.qty * l.price) AS subtotal
	  FROM cart_items ci
	  JOIN seller_listings l ON l.id = ci.listing_id
	  JOIN users u           ON u.id = l.seller_id
	  JOIN products p        ON p.id = l.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.listing_id
	`, cartID)
	return rows, err
}
