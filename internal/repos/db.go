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
	// Seed baseline data if DB is empty (categories/books)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Categories
CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Books
CREATE TABLE IF NOT EXISTS books(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category_id INTEGER REFERENCES categories(id) ON DELETE RESTRICT,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  image TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_books_category ON books(category_id);
CREATE INDEX IF NOT EXISTS idx_books_title    ON books(LOWER(title));

-- Book details (at most one per book)
CREATE TABLE IF NOT EXISTS book_details(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  book_id INTEGER NOT NULL UNIQUE REFERENCES books(id) ON DELETE CASCADE,
  isbn10 TEXT NOT NULL DEFAULT '',
  isbn13 TEXT NOT NULL DEFAULT '',
  publisher TEXT NOT NULL DEFAULT '',
  publish_year INTEGER,
  edition TEXT NOT NULL DEFAULT '',
  page_count INTEGER,
  language TEXT NOT NULL DEFAULT '',
  format TEXT CHECK (format IN ('Hardcover','Paperback','Ebook','Audiobook')),
  dimensions TEXT NOT NULL DEFAULT '',
  weight NUMERIC,
  description TEXT NOT NULL DEFAULT ''
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','processing','shipped','delivered','cancelled')),
  shipping_address TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_details(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL REFERENCES orders(id),
  book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_details_order ON order_details(order_id);
CREATE INDEX IF NOT EXISTS idx_order_details_book  ON order_details(book_id);

-- Purchases (restocks)
CREATE TABLE IF NOT EXISTS purchases(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  unit_price NUMERIC NOT NULL,
  payment_method TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_purchases_book ON purchases(book_id);

-- Carts (one line per user+book)
CREATE TABLE IF NOT EXISTS carts(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  UNIQUE(user_id, book_id)
);

-- Reviews (one per user+book)
CREATE TABLE IF NOT EXISTS reviews(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, book_id)
);

-- Wishlists (one entry per user+book)
CREATE TABLE IF NOT EXISTS wishlists(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(id),
  book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, book_id)
);

-- Users & API tokens
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user','admin')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS tokens(
  id TEXT PRIMARY KEY,               -- the bearer token value
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_tokens_user ON tokens(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/books")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO categories(name,description) VALUES
	  ('Fiction','Novels and short stories'),
	  ('Science','Popular science and reference'),
	  ('History','History and biography')`)

	tx.MustExec(`INSERT INTO books(category_id,title,author,price,stock_quantity,image) VALUES
	  (1,'The Remains of the Day','Kazuo Ishiguro',12.99,14,'uploads/books/remains.jpg'),
	  (1,'Kafka on the Shore','Haruki Murakami',14.50,9,'uploads/books/kafka.jpg'),
	  (2,'A Brief History of Time','Stephen Hawking',18.00,6,'uploads/books/brief-history.jpg'),
	  (3,'SPQR','Mary Beard',21.75,4,'uploads/books/spqr.jpg')`)

	tx.MustExec(`INSERT INTO book_details(book_id,isbn10,isbn13,publisher,publish_year,page_count,language,format) VALUES
	  (1,'0571258247','9780571258246','Faber & Faber',1989,258,'English','Paperback'),
	  (3,'0553380168','9780553380163','Bantam',1998,212,'English','Paperback')`)

	return tx.Commit()
}

// seedUsers ensures a regular user and an admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		Email, First, Last, Role, Hash string
	}
	mk := func(email, first, last, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{Email: email, First: first, Last: last, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("reader@bookery.test", "Rita", "Reader", "user", "Passw0rd!"),
		mk("admin@bookery.test", "Ada", "Admin", "admin", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(email,first_name,last_name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.Email, x.First, x.Last, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
