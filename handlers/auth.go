// handlers/auth.go
package handlers

import (
	"time"

	"biblenotes/middleware"
	"biblenotes/models"
	"biblenotes/services"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type GuestLoginRequest struct {
	GuestName string `json:"guest_name,omitempty" validate:"max=100"`
}

type IdentityRequest struct {
	TokenIdentifier string `json:"token_identifier" validate:"required,max=255"`
	Name            string `json:"name" validate:"max=200"`
	GivenName       string `json:"given_name" validate:"max=100"`
	Email           string `json:"email" validate:"omitempty,email"`
}

type AuthResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token,omitempty"`
	User    *UserInfo `json:"user,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type UserInfo struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	GivenName string    `json:"given_name"`
	IsGuest   bool      `json:"is_guest"`
	CreatedAt time.Time `json:"created_at"`
}

func userInfo(user *models.User) *UserInfo {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}
	return &UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     email,
		Name:      user.Name,
		GivenName: user.GivenName,
		IsGuest:   user.IsGuest,
		CreatedAt: user.CreatedAt,
	}
}

func authSuccess(c *fiber.Ctx, status int, user *models.User) error {
	token, err := middleware.GenerateToken(user.ID, user.Username, user.IsGuest)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Error:   "Failed to generate token",
		})
	}

	return c.Status(status).JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(user),
	})
}

// GuestLogin creates a new guest session
// POST /api/auth/guest
func GuestLogin(c *fiber.Ctx) error {
	var req GuestLoginRequest
	// An empty body is fine: the guest gets a generated name.
	_ = c.BodyParser(&req)
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}

	user, err := userService.CreateGuest(req.GuestName)
	if err != nil {
		return respondError(c, err)
	}
	return authSuccess(c, fiber.StatusOK, user)
}

// Login authenticates a registered user
// POST /api/auth/login
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := userService.Authenticate(req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return authSuccess(c, fiber.StatusOK, user)
}

// Register creates a new user account
// POST /api/auth/register
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := userService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return authSuccess(c, fiber.StatusCreated, user)
}

// UpgradeGuest converts a guest account to a registered account
// POST /api/auth/upgrade
func UpgradeGuest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := userService.UpgradeGuest(userID, req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return authSuccess(c, fiber.StatusOK, user)
}

// IdentityLogin exchanges an identity-provider subject for a session token,
// creating the user on first sight.
// POST /api/auth/identity
func IdentityLogin(c *fiber.Ctx) error {
	var req IdentityRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := userService.GetOrCreateUser(req.TokenIdentifier, services.Profile{
		Name:      req.Name,
		GivenName: req.GivenName,
		Email:     req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return authSuccess(c, fiber.StatusOK, user)
}
