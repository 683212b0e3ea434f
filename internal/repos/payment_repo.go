package repos

import (
	"github.com/jmoiron/sqlx"

	"hostelmart/internal/domain"
)

type PaymentRepo struct{ db *sqlx.DB }

func NewPaymentRepo(db *sqlx.DB) *PaymentRepo { return &PaymentRepo{db: db} }

func (r *PaymentRepo) Create(i domain.PaymentIntent) error {
	_, err := r.db.Exec(`
		INSERT INTO payment_intents(gateway_order_id, buyer_id, amount, currency, status)
		VALUES(?, ?, ?, ?, 'CREATED')
	`, i.GatewayOrderID, i.BuyerID, i.Amount, i.Currency)
	return err
}

func (r *PaymentRepo) Get(gatewayOrderID string) (domain.PaymentIntent, error) {
	var i domain.PaymentIntent
	err := r.db.Get(&i, `
		SELECT gateway_order_id, buyer_id, amount, currency, status, created_at
		FROM payment_intents WHERE gateway_order_id = ?
	`, gatewayOrderID)
	return i, err
}

// MarkVerified flips CREATED -> VERIFIED. Re-verifying an already verified
// intent is a no-op success so a retried callback stays idempotent.
func (r *PaymentRepo) MarkVerified(gatewayOrderID string) error {
	_, err := r.db.Exec(`
		UPDATE payment_intents SET status='VERIFIED'
		WHERE gateway_order_id = ? AND status='CREATED'
	`, gatewayOrderID)
	return err
}

// consumeIntent flips VERIFIED -> CONSUMED inside the checkout tx and returns
// the amount the buyer paid; !ok means the intent was unverified or a
// concurrent checkout already took it.
func consumeIntent(tx *sqlx.Tx, gatewayOrderID, buyerID string) (float64, bool, error) {
	res, err := tx.Exec(`
		UPDATE payment_intents SET status='CONSUMED'
		WHERE gateway_order_id = ? AND buyer_id = ? AND status='VERIFIED'
	`, gatewayOrderID, buyerID)
	if err != nil {
		return 0, false, err
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return 0, false, nil
	}
	var amount float64
	if err := tx.Get(&amount, `
		SELECT amount FROM payment_intents WHERE gateway_order_id = ?
	`, gatewayOrderID); err != nil {
		return 0, false, err
	}
	return amount, true, nil
}
