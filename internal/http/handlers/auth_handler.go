package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookery/internal/domain"
	applog "bookery/internal/log"
	"bookery/internal/services"
	"bookery/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}

	errs := validate.Errors{}
	email, ok := validate.Email(req.Email)
	if !ok {
		errs.Add("email", "must be a valid email address")
	}
	if !validate.Password(req.Password) {
		errs.Add("password", "must be 8-64 characters with upper, lower, digit, and symbol")
	}
	first, ok := validate.Name(req.FirstName)
	if !ok {
		errs.Add("first_name", "is required")
	}
	last, ok := validate.Name(req.LastName)
	if !ok {
		errs.Add("last_name", "is required")
	}
	if errs.Any() {
		return respondInvalid(c, errs)
	}

	u, token, err := h.Auth.Register(services.RegisterInput{
		Email:     email,
		Password:  req.Password,
		FirstName: first,
		LastName:  last,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		return respondErr(c, "auth.register.fail", "Failed to register", err)
	}
	applog.Audit(c, "auth.register", map[string]any{"email": email})
	return respondCreated(c, authResponse{User: u, Token: token}, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Malformed request body")
	}
	if _, ok := validate.Email(req.Email); !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return respondFail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	u, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return respondFail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	applog.Audit(c, "auth.login.success", map[string]any{"email": req.Email})
	return respondOK(c, authResponse{User: u, Token: token}, "Logged in successfully")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tok, _ := c.Locals("token").(string)
	if tok != "" {
		_ = h.Auth.Logout(tok)
	}
	applog.Audit(c, "auth.logout", nil)
	return respondOK(c, nil, "Logged out successfully")
}
