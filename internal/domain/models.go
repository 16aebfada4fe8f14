package domain

type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description,omitempty"`
	Image       string `db:"image" json:"image,omitempty"`
	CreatedAt   string `db:"created_at" json:"created_at,omitempty"`
}

type Book struct {
	ID            int64   `db:"id" json:"id"`
	CategoryID    *int64  `db:"category_id" json:"category_id,omitempty"`
	Title         string  `db:"title" json:"title"`
	Author        string  `db:"author" json:"author"`
	Price         float64 `db:"price" json:"price"`
	StockQuantity int     `db:"stock_quantity" json:"stock_quantity"`
	Image         string  `db:"image" json:"image,omitempty"`
	CreatedAt     string  `db:"created_at" json:"created_at,omitempty"`
}

// Formats accepted for a book detail record.
const (
	FormatHardcover = "Hardcover"
	FormatPaperback = "Paperback"
	FormatEbook     = "Ebook"
	FormatAudiobook = "Audiobook"
)

type BookDetail struct {
	ID          int64    `db:"id" json:"id"`
	BookID      int64    `db:"book_id" json:"book_id"`
	ISBN10      string   `db:"isbn10" json:"isbn10,omitempty"`
	ISBN13      string   `db:"isbn13" json:"isbn13,omitempty"`
	Publisher   string   `db:"publisher" json:"publisher,omitempty"`
	PublishYear *int     `db:"publish_year" json:"publish_year,omitempty"`
	Edition     string   `db:"edition" json:"edition,omitempty"`
	PageCount   *int     `db:"page_count" json:"page_count,omitempty"`
	Language    string   `db:"language" json:"language,omitempty"`
	Format      string   `db:"format" json:"format,omitempty"`
	Dimensions  string   `db:"dimensions" json:"dimensions,omitempty"`
	Weight      *float64 `db:"weight" json:"weight,omitempty"`
	Description string   `db:"description" json:"description,omitempty"`
}

// Order lifecycle states.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

type Order struct {
	ID              int64   `db:"id" json:"id"`
	UserID          int64   `db:"user_id" json:"user_id"`
	TotalAmount     float64 `db:"total_amount" json:"total_amount"`
	Status          string  `db:"status" json:"status"`
	ShippingAddress string  `db:"shipping_address" json:"shipping_address,omitempty"`
	PaymentMethod   string  `db:"payment_method" json:"payment_method,omitempty"`
	CreatedAt       string  `db:"created_at" json:"created_at,omitempty"`

	Details []OrderDetail `db:"-" json:"order_details,omitempty"`
}

// OrderDetail is one line item. Created only with its order; there is no
// update path afterward, so post-creation quantity changes are unrepresentable.
type OrderDetail struct {
	ID       int64   `db:"id" json:"id"`
	OrderID  int64   `db:"order_id" json:"order_id"`
	BookID   int64   `db:"book_id" json:"book_id"`
	Quantity int     `db:"quantity" json:"quantity"`
	Price    float64 `db:"price" json:"price"`

	Book *Book `db:"-" json:"book,omitempty"`
}

// Purchase is a restock record: inbound inventory that raises stock.
type Purchase struct {
	ID            int64   `db:"id" json:"id"`
	BookID        int64   `db:"book_id" json:"book_id"`
	Quantity      int     `db:"quantity" json:"quantity"`
	UnitPrice     float64 `db:"unit_price" json:"unit_price"`
	PaymentMethod string  `db:"payment_method" json:"payment_method"`
	CreatedAt     string  `db:"created_at" json:"created_at,omitempty"`

	Book *Book `db:"-" json:"book,omitempty"`
}

type CartItem struct {
	ID       int64 `db:"id" json:"id"`
	UserID   int64 `db:"user_id" json:"user_id"`
	BookID   int64 `db:"book_id" json:"book_id"`
	Quantity int   `db:"quantity" json:"quantity"`

	Book *Book `db:"-" json:"book,omitempty"`
}

type Review struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	BookID    int64  `db:"book_id" json:"book_id"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`
}

type WishlistItem struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	BookID    int64  `db:"book_id" json:"book_id"`
	CreatedAt string `db:"created_at" json:"created_at,omitempty"`

	Book *Book `db:"-" json:"book,omitempty"`
}
