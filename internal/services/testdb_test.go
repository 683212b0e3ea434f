package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"hostelmart/internal/domain"
	"hostelmart/internal/gateway"
	"hostelmart/internal/repos"
	"hostelmart/internal/services"
)

const testSecret = "test_secret"

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// one in-memory database, shared across goroutines
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE users(id TEXT PRIMARY KEY, email TEXT UNIQUE, name TEXT, password_hash TEXT,
	  role TEXT, hostel TEXT DEFAULT '', room TEXT DEFAULT '', banned INTEGER DEFAULT 0);
	CREATE TABLE products(id TEXT PRIMARY KEY, title TEXT, description TEXT,
	  active INTEGER DEFAULT 1, created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE seller_listings(id TEXT PRIMARY KEY, seller_id TEXT, product_id TEXT,
	  price NUMERIC, stock INTEGER DEFAULT 0, active INTEGER DEFAULT 1,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT,
	  UNIQUE(seller_id, product_id));
	CREATE TABLE carts(id TEXT PRIMARY KEY, buyer_id TEXT UNIQUE NOT NULL, updated_at TEXT);
	CREATE TABLE cart_items(cart_id TEXT, listing_id TEXT, qty INTEGER,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT,
	  PRIMARY KEY(cart_id, listing_id));
	CREATE TABLE payment_intents(gateway_order_id TEXT PRIMARY KEY, buyer_id TEXT,
	  amount NUMERIC, currency TEXT, status TEXT DEFAULT 'CREATED',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE TABLE orders(id TEXT PRIMARY KEY, payment_group_id TEXT, buyer_id TEXT,
	  listing_id TEXT, seller_id TEXT, product_id TEXT, qty INTEGER,
	  unit_price NUMERIC, total_price NUMERIC, status TEXT DEFAULT 'PENDING',
	  requires_verification INTEGER DEFAULT 1, verification_code TEXT DEFAULT '',
	  is_verified INTEGER DEFAULT 0, delivery_hostel TEXT DEFAULT '', delivery_room TEXT DEFAULT '',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, accepted_at TEXT DEFAULT '',
	  completed_at TEXT DEFAULT '', cancelled_at TEXT DEFAULT '');
	CREATE TABLE reviews(id TEXT PRIMARY KEY, order_id TEXT, seller_id TEXT, buyer_id TEXT,
	  rating INTEGER, comment TEXT DEFAULT '', status TEXT DEFAULT 'ACTIVE',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP);
	CREATE UNIQUE INDEX idx_reviews_pair ON reviews(order_id, seller_id) WHERE status='ACTIVE';
	CREATE TABLE notifications(id TEXT PRIMARY KEY, recipient_id TEXT, type TEXT,
	  message TEXT, read INTEGER DEFAULT 0, created_at TEXT DEFAULT CURRENT_TIMESTAMP);

	INSERT INTO users(id,email,name,password_hash,role,hostel,room) VALUES
	  ('u-b1','b1@test','Asha','x','BUYER','Ganga','A-101'),
	  ('u-b2','b2@test','Vikram','x','BUYER','Ganga','B-202'),
	  ('u-s1','s1@test','Meera','x','SELLER','Ganga','C-303'),
	  ('u-s2','s2@test','Rohan','x','SELLER','Yamuna','D-404');
	INSERT INTO products(id,title,description) VALUES
	  ('p-maggi','Maggi 12-pack','noodles'),
	  ('p-kettle','Electric Kettle','kettle');
	INSERT INTO seller_listings(id,seller_id,product_id,price,stock) VALUES
	  ('l-s1-maggi','u-s1','p-maggi',50.00,5),
	  ('l-s1-kettle','u-s1','p-kettle',80.00,1),
	  ('l-s2-kettle','u-s2','p-kettle',30.00,4);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

type harness struct {
	db       *sqlx.DB
	listings *repos.ListingRepo
	orderRep *repos.OrderRepo
	notifs   *repos.NotificationRepo

	cart     *services.CartService
	payment  *services.PaymentService
	checkout *services.CheckoutService
	orders   *services.OrderService
	reviews  *services.ReviewService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := memdb(t)

	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	cartRepo := repos.NewCartRepo(db)
	paymentRepo := repos.NewPaymentRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)

	cartSvc := services.NewCartService(cartRepo, listingRepo, 10, 5)
	paymentSvc := services.NewPaymentService(gateway.NewSandbox("test_key"), paymentRepo, cartSvc, testSecret, "INR")

	return &harness{
		db:       db,
		listings: listingRepo,
		orderRep: orderRepo,
		notifs:   repos.NewNotificationRepo(db),
		cart:     cartSvc,
		payment:  paymentSvc,
		checkout: services.NewCheckoutService(paymentSvc, orderRepo, userRepo),
		orders:   services.NewOrderService(orderRepo),
		reviews:  services.NewReviewService(reviewRepo, orderRepo),
	}
}

// payAndCheckout runs intent creation, a well-signed callback and the split
// for the buyer's current cart.
func (h *harness) payAndCheckout(t *testing.T, buyerID, hostel, room string) ([]domain.Order, error) {
	t.Helper()
	intent, err := h.payment.CreateIntent(buyerID)
	if err != nil {
		return nil, err
	}
	payID := "pay_" + intent.GatewayOrderID
	sig := gateway.Signature(testSecret, intent.GatewayOrderID, payID)
	return h.checkout.Checkout(buyerID, intent.GatewayOrderID, payID, sig, hostel, room)
}

func (h *harness) stock(t *testing.T, listingID string) int {
	t.Helper()
	qty, err := h.listings.Stock(listingID)
	if err != nil {
		t.Fatalf("stock %s: %v", listingID, err)
	}
	return qty
}

func (h *harness) cartSize(t *testing.T, buyerID string) int {
	t.Helper()
	var n int
	if err := h.db.Get(&n, `SELECT COUNT(*) FROM cart_items WHERE cart_id=?`, buyerID); err != nil {
		t.Fatal(err)
	}
	return n
}

func (h *harness) orderCount(t *testing.T, buyerID string) int {
	t.Helper()
	var n int
	if err := h.db.Get(&n, `SELECT COUNT(*) FROM orders WHERE buyer_id=?`, buyerID); err != nil {
		t.Fatal(err)
	}
	return n
}
