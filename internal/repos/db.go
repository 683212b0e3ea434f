package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo users/products/listings (idempotent; safe on every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('BUYER','SELLER','ADMIN')),
  hostel TEXT NOT NULL DEFAULT '',
  room TEXT NOT NULL DEFAULT '',
  banned INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Catalog products (CRUD happens outside the engine; consumed for titles)
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Seller listings: one seller's price/stock offer on a product.
-- stock >= 0 is enforced here and every decrement is conditional.
CREATE TABLE IF NOT EXISTS seller_listings(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(seller_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_listings_seller  ON seller_listings(seller_id);
CREATE INDEX IF NOT EXISTS idx_listings_product ON seller_listings(product_id);

-- Carts (one per buyer, created lazily on first add)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  buyer_id TEXT UNIQUE NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL REFERENCES seller_listings(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  PRIMARY KEY (cart_id, listing_id)
);

-- Payment intents: one gateway transaction per checkout attempt
CREATE TABLE IF NOT EXISTS payment_intents(
  gateway_order_id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL REFERENCES users(id),
  amount NUMERIC NOT NULL,
  currency TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'CREATED' CHECK (status IN ('CREATED','VERIFIED','CONSUMED')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Orders: one per cart line at checkout time
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  payment_group_id TEXT NOT NULL,
  buyer_id TEXT NOT NULL REFERENCES users(id),
  listing_id TEXT NOT NULL REFERENCES seller_listings(id),
  seller_id TEXT NOT NULL REFERENCES users(id),
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL CHECK (qty >= 1),
  unit_price NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING'
    CHECK (status IN ('PENDING','ACCEPTED','REJECTED','COMPLETED','CANCELLED')),
  requires_verification INTEGER NOT NULL DEFAULT 1,
  verification_code TEXT NOT NULL DEFAULT '',
  is_verified INTEGER NOT NULL DEFAULT 0,
  delivery_hostel TEXT NOT NULL,
  delivery_room TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  accepted_at TEXT NOT NULL DEFAULT '',
  completed_at TEXT NOT NULL DEFAULT '',
  cancelled_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_orders_group  ON orders(payment_group_id);
CREATE INDEX IF NOT EXISTS idx_orders_buyer  ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id, status);

-- Reviews: at most one ACTIVE review per (order, seller)
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL REFERENCES orders(id),
  seller_id TEXT NOT NULL REFERENCES users(id),
  buyer_id TEXT NOT NULL REFERENCES users(id),
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'ACTIVE' CHECK (status IN ('ACTIVE','REMOVED')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_pair
  ON reviews(order_id, seller_id) WHERE status='ACTIVE';

-- Notifications: one row per state-transition event, read by in-app poll
CREATE TABLE IF NOT EXISTS notifications(
  id TEXT PRIMARY KEY,
  recipient_id TEXT NOT NULL REFERENCES users(id),
  type TEXT NOT NULL,
  message TEXT NOT NULL,
  read INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, read);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures demo buyers and sellers exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hostel, Room, Hash string
	}
	mk := func(id, email, name, role, hostel, room, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hostel: hostel, Room: room, Hash: string(h)}
	}

	users := []u{
		mk("u-asha", "asha@hostelmart.test", "Asha", "BUYER", "Ganga", "A-101", "Passw0rd!"),
		mk("u-vikram", "vikram@hostelmart.test", "Vikram", "BUYER", "Yamuna", "C-318", "Passw0rd!"),
		mk("u-meera", "meera@hostelmart.test", "Meera", "SELLER", "Ganga", "B-204", "Passw0rd!"),
		mk("u-rohan", "rohan@hostelmart.test", "Rohan", "SELLER", "Ganga", "D-112", "Passw0rd!"),
		mk("u-admin", "admin@hostelmart.test", "Admin", "ADMIN", "", "", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,hostel,room)
			VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role, x.Hostel, x.Room); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedCatalog inserts demo products and listings if missing (idempotent).
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products/listings")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO products(id,title,description) VALUES
	  ('maggi-12','Maggi 12-pack','Instant noodles, dozen'),
	  ('kettle-1l','Electric Kettle 1L','Dorm-safe 1000W kettle'),
	  ('casio-991','Casio fx-991EX','Scientific calculator')`)

	tx.MustExec(`INSERT INTO seller_listings(id,seller_id,product_id,price,stock) VALUES
	  ('l-meera-maggi','u-meera','maggi-12',120.00,15),
	  ('l-meera-kettle','u-meera','kettle-1l',850.00,3),
	  ('l-rohan-maggi','u-rohan','maggi-12',110.00,8),
	  ('l-rohan-casio','u-rohan','casio-991',1450.00,2)`)

	return tx.Commit()
}
