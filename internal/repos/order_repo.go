package repos

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hostelmart/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderView joins the product title for buyer/seller listings.
type OrderView struct {
	domain.Order
	Title      string `db:"title"`
	BuyerName  string `db:"buyer_name"`
	SellerName string `db:"seller_name"`
}

const orderCols = `o.id, o.payment_group_id, o.buyer_id, o.listing_id, o.seller_id, o.product_id,
	o.qty, o.unit_price, o.total_price, o.status, o.requires_verification, o.verification_code,
	o.is_verified, o.delivery_hostel, o.delivery_room, o.created_at, o.accepted_at,
	o.completed_at, o.cancelled_at`

const orderViewSelect = `
	SELECT ` + orderCols + `, p.title, bu.name AS buyer_name, su.name AS seller_name
	FROM orders o
	JOIN products p ON p.id = o.product_id
	JOIN users bu   ON bu.id = o.buyer_id
	JOIN users su   ON su.id = o.seller_id`

func (r *OrderRepo) Get(orderID string) (OrderView, error) {
	var o OrderView
	err := r.db.Get(&o, orderViewSelect+` WHERE o.id = ?`, orderID)
	return o, err
}

func (r *OrderRepo) ListByBuyer(buyerID, groupID string) ([]OrderView, error) {
	q := orderViewSelect + ` WHERE o.buyer_id = ?`
	args := []any{buyerID}
	if groupID != "" {
		q += ` AND o.payment_group_id = ?`
		args = append(args, groupID)
	}
	q += ` ORDER BY datetime(o.created_at) DESC, o.id`
	var out []OrderView
	err := r.db.Select(&out, q, args...)
	return out, err
}

func (r *OrderRepo) ListBySeller(sellerID, status string) ([]OrderView, error) {
	q := orderViewSelect + ` WHERE o.seller_id = ?`
	args := []any{sellerID}
	if status != "" {
		q += ` AND o.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY datetime(o.created_at) DESC, o.id`
	var out []OrderView
	err := r.db.Select(&out, q, args...)
	return out, err
}

// ListRecent returns the newest orders marketplace-wide, optionally filtered
// by status. Admin oversight only.
func (r *OrderRepo) ListRecent(status string, limit int) ([]OrderView, error) {
	q := orderViewSelect
	args := []any{}
	if status != "" {
		q += ` WHERE o.status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY datetime(o.created_at) DESC, o.id LIMIT ?`
	args = append(args, limit)
	var out []OrderView
	err := r.db.Select(&out, q, args...)
	return out, err
}

// ---------- Checkout splitting ----------

// PlaceGroup converts a consumed payment intent plus the buyer's cart into
// one PENDING order per cart line, inside a single transaction. Any failure
// rolls the whole group back: no partial stock decrements, no partial orders.
//
// The flat delivery fee and the tax on the subtotal are spread over the lines
// in proportion to their subtotals (remainder lands on the last line), so the
// group's order totals sum exactly to what the buyer paid.
func (r *OrderRepo) PlaceGroup(gatewayOrderID, buyerID, hostel, room string, deliveryFee, taxRate float64, codeFn func() string) ([]domain.Order, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	paid, ok, err := consumeIntent(tx, gatewayOrderID, buyerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPaymentNotVerified
	}

	var lines []CartLineRow
	if err := tx.Select(&lines, `
	  SELECT ci.listing_id, l.seller_id, u.name AS seller_name, u.hostel AS seller_hostel,
	         l.product_id, p.title, ci.qty, l.price AS unit_price, l.stock,
	         (ci.qty * l.price) AS subtotal
	  FROM cart_items ci
	  JOIN seller_listings l ON l.id = ci.listing_id
	  JOIN users u           ON u.id = l.seller_id
	  JOIN products p        ON p.id = l.product_id
	  WHERE ci.cart_id = ?
	  ORDER BY ci.created_at, ci.listing_id
	`, buyerID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	var bannedSellers []string
	if err := tx.Select(&bannedSellers, `
		SELECT DISTINCT l.seller_id
		FROM cart_items ci JOIN seller_listings l ON l.id = ci.listing_id
		JOIN users u ON u.id = l.seller_id
		WHERE ci.cart_id = ? AND (u.banned = 1 OR l.active = 0)
	`, buyerID); err != nil {
		return nil, err
	}
	if len(bannedSellers) > 0 {
		return nil, domain.ErrListingUnavailable
	}

	subtotal := 0.0
	for _, ln := range lines {
		subtotal += ln.Subtotal
	}
	subtotal = round2(subtotal)
	charges := round2(deliveryFee + subtotal*taxRate/100)

	// The group only splits the cart the buyer actually paid for. Lines
	// added, removed or requantified during the payment round-trip change
	// the total and void the attempt; the rollback leaves the intent
	// VERIFIED so the buyer can restore the cart and retry.
	if math.Abs(round2(subtotal+charges)-paid) > 0.005 {
		return nil, domain.ErrAmountMismatch
	}

	created := make([]domain.Order, 0, len(lines))
	sellers := map[string]bool{}
	allocated := 0.0
	for i, ln := range lines {
		if ln.SellerHostel != hostel {
			return nil, domain.ErrMixedDeliveryZone
		}
		// Compare-and-decrement: the WHERE clause is the stock re-check.
		if err := decrementStock(tx, ln.ListingID, ln.Qty); err != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrOutOfStock, ln.Title)
		}

		// Proportional share of fee+tax; the last line absorbs the
		// rounding remainder. A zero subtotal (all-free cart) would
		// divide by zero, so the charges then ride entirely on the
		// last line.
		var share float64
		switch {
		case i == len(lines)-1:
			share = round2(charges - allocated)
		case subtotal > 0:
			share = round2(charges * ln.Subtotal / subtotal)
		}
		allocated = round2(allocated + share)

		o := domain.Order{
			ID:                   uuid.NewString(),
			PaymentGroupID:       gatewayOrderID,
			BuyerID:              buyerID,
			ListingID:            ln.ListingID,
			SellerID:             ln.SellerID,
			ProductID:            ln.ProductID,
			Qty:                  ln.Qty,
			UnitPrice:            ln.UnitPrice,
			TotalPrice:           round2(ln.Subtotal + share),
			Status:               domain.OrderPending,
			RequiresVerification: true,
			VerificationCode:     codeFn(),
			DeliveryHostel:       hostel,
			DeliveryRoom:         room,
		}
		if _, err := tx.Exec(`
			INSERT INTO orders(id, payment_group_id, buyer_id, listing_id, seller_id, product_id,
			  qty, unit_price, total_price, status, requires_verification, verification_code,
			  delivery_hostel, delivery_room)
			VALUES(?,?,?,?,?,?,?,?,?,?,1,?,?,?)
		`, o.ID, o.PaymentGroupID, o.BuyerID, o.ListingID, o.SellerID, o.ProductID,
			o.Qty, o.UnitPrice, o.TotalPrice, o.Status, o.VerificationCode,
			o.DeliveryHostel, o.DeliveryRoom); err != nil {
			return nil, err
		}
		created = append(created, o)
		sellers[ln.SellerID] = true
	}

	// One NEW_ORDER notification per distinct seller, same tx as the orders.
	for sellerID := range sellers {
		if err := insertNotification(tx, sellerID, domain.NotifyNewOrder,
			"You have new orders to fulfil"); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, buyerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// ---------- State machine ----------

// ownedStatus loads the order's state iff the caller is its seller; callers
// that do not own the order see sql.ErrNoRows, not the real state.
func ownedStatus(tx *sqlx.Tx, orderID, sellerID string) (domain.Order, error) {
	var o domain.Order
	err := tx.Get(&o, `
		SELECT `+bareOrderCols+` FROM orders o WHERE o.id = ? AND o.seller_id = ?
	`, orderID, sellerID)
	return o, err
}

const bareOrderCols = `o.id, o.payment_group_id, o.buyer_id, o.listing_id, o.seller_id, o.product_id,
	o.qty, o.unit_price, o.total_price, o.status, o.requires_verification, o.verification_code,
	o.is_verified, o.delivery_hostel, o.delivery_room, o.created_at, o.accepted_at,
	o.completed_at, o.cancelled_at`

// Accept moves PENDING -> ACCEPTED for the owning seller and notifies the buyer.
func (r *OrderRepo) Accept(orderID, sellerID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := ownedStatus(tx, orderID, sellerID)
	if err != nil {
		return err
	}
	res, err := tx.Exec(`
		UPDATE orders SET status='ACCEPTED', accepted_at=CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ? AND status = 'PENDING'
	`, orderID, sellerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidTransition
	}
	if err := insertNotification(tx, o.BuyerID, domain.NotifyOrderAccepted,
		"Your order was accepted by the seller"); err != nil {
		return err
	}
	return tx.Commit()
}

// RejectOrCancel handles the two restocking transitions:
// PENDING -> REJECTED and ACCEPTED -> CANCELLED. The status flip and the
// stock restore share one transaction so a lost race restocks nothing.
func (r *OrderRepo) RejectOrCancel(orderID, sellerID, to string) error {
	from, notifType, message := domain.OrderPending, domain.NotifyOrderRejected, "Your order was rejected by the seller"
	if to == domain.OrderCancelled {
		from, notifType, message = domain.OrderAccepted, domain.NotifyOrderCancelled, "Your order was cancelled by the seller"
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := ownedStatus(tx, orderID, sellerID)
	if err != nil {
		return err
	}
	res, err := tx.Exec(`
		UPDATE orders SET status = ?, cancelled_at=CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ? AND status = ?
	`, to, orderID, sellerID, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidTransition
	}
	if err := restockStock(tx, o.ListingID, o.Qty); err != nil {
		return err
	}
	if err := insertNotification(tx, o.BuyerID, notifType, message); err != nil {
		return err
	}
	return tx.Commit()
}

// CompleteLegacy moves ACCEPTED -> COMPLETED without a code, allowed only for
// orders that predate delivery verification.
func (r *OrderRepo) CompleteLegacy(orderID, sellerID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := ownedStatus(tx, orderID, sellerID)
	if err != nil {
		return err
	}
	if o.RequiresVerification {
		return domain.ErrInvalidTransition
	}
	res, err := tx.Exec(`
		UPDATE orders SET status='COMPLETED', completed_at=CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ? AND status = 'ACCEPTED' AND requires_verification = 0
	`, orderID, sellerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidTransition
	}
	if err := insertNotification(tx, o.BuyerID, domain.NotifyOrderCompleted,
		"Your order was delivered"); err != nil {
		return err
	}
	return tx.Commit()
}

// VerifyComplete is the OTP check-and-set: verification and completion happen
// in one conditional UPDATE so two concurrent attempts cannot both pass, and
// a verified-but-not-completed state never exists.
func (r *OrderRepo) VerifyComplete(orderID, sellerID, code string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := ownedStatus(tx, orderID, sellerID)
	if err != nil {
		return err
	}

	res, err := tx.Exec(`
		UPDATE orders SET status='COMPLETED', is_verified=1, completed_at=CURRENT_TIMESTAMP
		WHERE id = ? AND seller_id = ? AND status='ACCEPTED'
		  AND is_verified = 0 AND verification_code = ?
	`, orderID, sellerID, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Diagnose from the snapshot read under the same tx.
		switch {
		case o.IsVerified:
			return domain.ErrAlreadyVerified
		case o.Status != domain.OrderAccepted:
			return domain.ErrInvalidTransition
		case o.VerificationCode != code:
			return domain.ErrInvalidCode
		default:
			return domain.ErrInvalidTransition
		}
	}
	if err := insertNotification(tx, o.BuyerID, domain.NotifyOrderCompleted,
		"Your order was delivered"); err != nil {
		return err
	}
	return tx.Commit()
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }

// StatusOf is a read helper for tests and handlers.
func (r *OrderRepo) StatusOf(orderID string) (string, error) {
	var s string
	err := r.db.Get(&s, `SELECT status FROM orders WHERE id = ?`, orderID)
	if err == sql.ErrNoRows {
		return "", err
	}
	return s, err
}
