package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"bookery/internal/http/handlers"
	"bookery/internal/repos"
)

type apiEnvelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := newTestAppDB(t)
	return app
}

func newTestAppDB(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	app := fiber.New()
	handlers.Register(app, handlers.NewDeps(db))
	return app, db
}

func jsonReq(method, path, token string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, apiEnvelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp, env
}

// login signs in with the seeded reader account and returns its token.
func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, env := do(t, app, jsonReq("POST", "/api/v1/login", "", fiber.Map{
		"email":    "reader@bookery.test",
		"password": "Passw0rd!",
	}))
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("login failed: status=%d message=%q", resp.StatusCode, env.Message)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("no token in login response: %v", err)
	}
	return data.Token
}

func bookStock(t *testing.T, app *fiber.App, bookID int64) int {
	t.Helper()
	resp, env := do(t, app, jsonReq("GET", fmt.Sprintf("/api/v1/books/%d", bookID), "", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get book %d: status=%d", bookID, resp.StatusCode)
	}
	var data struct {
		StockQuantity int `json:"stock_quantity"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode book: %v", err)
	}
	return data.StockQuantity
}

func TestCatalogIsPublicAndMutationsAreNot(t *testing.T) {
	app := newTestApp(t)

	resp, env := do(t, app, jsonReq("GET", "/api/v1/books", "", nil))
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("public book list: status=%d", resp.StatusCode)
	}

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/v1/orders"},
		{"POST", "/api/v1/books"},
		{"DELETE", "/api/v1/categories/1"},
		{"POST", "/api/v1/purchases"},
	} {
		resp, env := do(t, app, jsonReq(tc.method, tc.path, "", nil))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: want 401, got %d", tc.method, tc.path, resp.StatusCode)
		}
		if env.Success || env.Message != "Unauthenticated" {
			t.Fatalf("%s %s: unexpected envelope %+v", tc.method, tc.path, env)
		}
	}
}

func TestLoginLogoutLifecycle(t *testing.T) {
	app := newTestApp(t)

	// Bad password is a flat 401 with no detail.
	resp, env := do(t, app, jsonReq("POST", "/api/v1/login", "", fiber.Map{
		"email": "reader@bookery.test", "password": "wrong",
	}))
	if resp.StatusCode != http.StatusUnauthorized || env.Message != "Invalid email or password" {
		t.Fatalf("bad login: status=%d message=%q", resp.StatusCode, env.Message)
	}

	token := login(t, app)
	resp, _ = do(t, app, jsonReq("GET", "/api/v1/orders", token, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("orders with token: %d", resp.StatusCode)
	}

	resp, _ = do(t, app, jsonReq("POST", "/api/v1/logout", token, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}

	// A revoked token stops working immediately.
	resp, _ = do(t, app, jsonReq("GET", "/api/v1/orders", token, nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked token: want 401, got %d", resp.StatusCode)
	}
}

func TestRegisterValidationAndSuccess(t *testing.T) {
	app := newTestApp(t)

	resp, env := do(t, app, jsonReq("POST", "/api/v1/register", "", fiber.Map{
		"email": "not-an-email", "password": "short",
	}))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", resp.StatusCode)
	}
	for _, field := range []string{"email", "password", "first_name", "last_name"} {
		if len(env.Errors[field]) == 0 {
			t.Fatalf("missing validation error for %q: %+v", field, env.Errors)
		}
	}

	resp, env = do(t, app, jsonReq("POST", "/api/v1/register", "", fiber.Map{
		"email":      "nadia@bookery.test",
		"password":   "Str0ng!Pass",
		"first_name": "Nadia",
		"last_name":  "New",
	}))
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("register: status=%d message=%q", resp.StatusCode, env.Message)
	}
	var data struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Token == "" || data.User.Email != "nadia@bookery.test" {
		t.Fatalf("unexpected register payload: %+v", data)
	}

	// The issued token works straight away.
	resp, _ = do(t, app, jsonReq("GET", "/api/v1/orders", data.Token, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fresh token rejected: %d", resp.StatusCode)
	}
}

func TestOrderEndpointMovesStock(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	if got := bookStock(t, app, 1); got != 14 {
		t.Fatalf("seed stock: want 14, got %d", got)
	}

	resp, env := do(t, app, jsonReq("POST", "/api/v1/orders", token, fiber.Map{
		"user_id":          1,
		"total_amount":     25.98,
		"shipping_address": "1 Library Lane",
		"payment_method":   "card",
		"order_details": []fiber.Map{
			{"book_id": 1, "quantity": 2, "price": 12.99},
		},
	}))
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("create order: status=%d message=%q errors=%v", resp.StatusCode, env.Message, env.Errors)
	}
	var order struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatal(err)
	}
	if order.ID == 0 || order.Status != "pending" {
		t.Fatalf("unexpected order payload: %+v", order)
	}

	if got := bookStock(t, app, 1); got != 12 {
		t.Fatalf("after order: want 12, got %d", got)
	}

	resp, env = do(t, app, jsonReq("DELETE", fmt.Sprintf("/api/v1/orders/%d", order.ID), token, nil))
	if resp.StatusCode != http.StatusOK || env.Message != "Order deleted successfully" {
		t.Fatalf("delete order: status=%d message=%q", resp.StatusCode, env.Message)
	}

	if got := bookStock(t, app, 1); got != 14 {
		t.Fatalf("after delete: want 14, got %d", got)
	}
}

func TestOrderUnknownBookLeavesNothingBehind(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	resp, env := do(t, app, jsonReq("POST", "/api/v1/orders", token, fiber.Map{
		"user_id":      1,
		"total_amount": 99.0,
		"order_details": []fiber.Map{
			{"book_id": 1, "quantity": 2, "price": 12.99},
			{"book_id": 999, "quantity": 1, "price": 5.0},
		},
	}))
	if resp.StatusCode != http.StatusNotFound || env.Success {
		t.Fatalf("want 404, got %d (%q)", resp.StatusCode, env.Message)
	}

	if got := bookStock(t, app, 1); got != 14 {
		t.Fatalf("partial decrement leaked: %d", got)
	}

	resp, env = do(t, app, jsonReq("GET", "/api/v1/orders", token, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list orders: %d", resp.StatusCode)
	}
	if len(env.Data) > 0 {
		var orders []json.RawMessage
		if err := json.Unmarshal(env.Data, &orders); err != nil {
			t.Fatal(err)
		}
		if len(orders) != 0 {
			t.Fatalf("rolled-back order visible in list: %d", len(orders))
		}
	}
}

func TestOrderValidationFieldMap(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	resp, env := do(t, app, jsonReq("POST", "/api/v1/orders", token, fiber.Map{
		"status": "teleported",
	}))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", resp.StatusCode)
	}
	for _, field := range []string{"user_id", "total_amount", "status", "order_details"} {
		if len(env.Errors[field]) == 0 {
			t.Fatalf("missing validation error for %q: %+v", field, env.Errors)
		}
	}
}

func TestPurchaseEndpointMovesStock(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	resp, env := do(t, app, jsonReq("POST", "/api/v1/purchases", token, fiber.Map{
		"book_id":        2,
		"quantity":       5,
		"unit_price":     7.25,
		"payment_method": "invoice",
	}))
	if resp.StatusCode != http.StatusCreated || !env.Success {
		t.Fatalf("create purchase: status=%d message=%q errors=%v", resp.StatusCode, env.Message, env.Errors)
	}
	var purchase struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &purchase); err != nil {
		t.Fatal(err)
	}

	if got := bookStock(t, app, 2); got != 14 {
		t.Fatalf("after restock: want 14, got %d", got)
	}

	// Quantity change nets the delta.
	resp, _ = do(t, app, jsonReq("PUT", fmt.Sprintf("/api/v1/purchases/%d", purchase.ID), token, fiber.Map{
		"quantity": 8,
	}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update purchase: %d", resp.StatusCode)
	}
	if got := bookStock(t, app, 2); got != 17 {
		t.Fatalf("after quantity update: want 17, got %d", got)
	}

	resp, _ = do(t, app, jsonReq("DELETE", fmt.Sprintf("/api/v1/purchases/%d", purchase.ID), token, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete purchase: %d", resp.StatusCode)
	}
	if got := bookStock(t, app, 2); got != 9 {
		t.Fatalf("after revert: want 9, got %d", got)
	}
}

func TestConflictAndNotFoundEnvelopes(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	// Category 1 still holds books.
	resp, env := do(t, app, jsonReq("DELETE", "/api/v1/categories/1", token, nil))
	if resp.StatusCode != http.StatusConflict || env.Success {
		t.Fatalf("want 409, got %d", resp.StatusCode)
	}
	if env.Message != "Cannot delete category with associated books" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	resp, env = do(t, app, jsonReq("GET", "/api/v1/books/999", "", nil))
	if resp.StatusCode != http.StatusNotFound || env.Success {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
	if env.Message != "Book not found" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestWishlistCheckQuery(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	resp, _ := do(t, app, jsonReq("POST", "/api/v1/wishlists", token, fiber.Map{
		"user_id": 1, "book_id": 2,
	}))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add wishlist: %d", resp.StatusCode)
	}

	check := func(bookID int64) bool {
		resp, env := do(t, app, jsonReq("GET",
			fmt.Sprintf("/api/v1/wishlists/check?user_id=1&book_id=%d", bookID), token, nil))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("wishlist check: %d", resp.StatusCode)
		}
		var data struct {
			InWishlist bool `json:"in_wishlist"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatal(err)
		}
		return data.InWishlist
	}

	if !check(2) {
		t.Fatal("book 2 should be in the wishlist")
	}
	if check(4) {
		t.Fatal("book 4 should not be in the wishlist")
	}
}

func TestReviewsArePublicToRead(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	resp, _ := do(t, app, jsonReq("POST", "/api/v1/reviews", token, fiber.Map{
		"user_id": 1, "book_id": 1, "rating": 5, "comment": "A quiet masterpiece",
	}))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create review: %d", resp.StatusCode)
	}

	// No token needed to read a book's reviews.
	resp, env := do(t, app, jsonReq("GET", "/api/v1/books/1/reviews", "", nil))
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("public reviews: %d", resp.StatusCode)
	}
	var reviews []struct {
		Rating int `json:"rating"`
	}
	if err := json.Unmarshal(env.Data, &reviews); err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 1 || reviews[0].Rating != 5 {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
}

func TestBookDetailLookupByBook(t *testing.T) {
	app := newTestApp(t)

	// Book 1 ships with a seeded detail record, readable without a token.
	resp, env := do(t, app, jsonReq("GET", "/api/v1/books/1/detail", "", nil))
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("book 1 detail: status=%d", resp.StatusCode)
	}
	var detail struct {
		BookID    int64  `json:"book_id"`
		Publisher string `json:"publisher"`
	}
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatal(err)
	}
	if detail.BookID != 1 || detail.Publisher != "Faber & Faber" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	// Book 2 has no detail record.
	resp, env = do(t, app, jsonReq("GET", "/api/v1/books/2/detail", "", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("book 2 detail: want 404, got %d", resp.StatusCode)
	}
	if env.Success || env.Message != "Book detail not found" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestUserCartAndWishlistRejectUnknownUser(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app)

	for _, path := range []string{"/api/v1/users/999/cart", "/api/v1/users/999/wishlist"} {
		resp, env := do(t, app, jsonReq("GET", path, token, nil))
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("GET %s: want 404, got %d", path, resp.StatusCode)
		}
		if env.Success || env.Message != "User not found" {
			t.Fatalf("GET %s: unexpected envelope %+v", path, env)
		}
	}
}

func TestExistenceCheckFailureIsServerError(t *testing.T) {
	app, db := newTestAppDB(t)
	token := login(t, app)

	// Dropping the books table makes the book existence check error out.
	// That is a server fault, not a validation verdict, so the endpoint
	// must answer 500 rather than blaming the request. Seeded detail rows
	// go first so the drop clears the foreign key checks.
	if _, err := db.Exec(`DELETE FROM book_details`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`DROP TABLE books`); err != nil {
		t.Fatal(err)
	}

	resp, env := do(t, app, jsonReq("POST", "/api/v1/carts", token, fiber.Map{
		"user_id": 1, "book_id": 1, "quantity": 1,
	}))
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", resp.StatusCode)
	}
	if env.Success {
		t.Fatal("envelope must not claim success")
	}
	if len(env.Errors) != 0 {
		t.Fatalf("a storage fault must not surface as field errors: %+v", env.Errors)
	}
}
