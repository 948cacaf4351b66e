// middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const devJWTSecret = "biblenotes-secret-change-in-production"

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 720 * time.Hour // 30 days

// JWTSecret returns the signing secret, falling back to a development value.
func JWTSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return devJWTSecret
}

// GenerateToken issues an HS256 token carrying the user's id, name and guest flag.
func GenerateToken(userID uint, username string, isGuest bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"is_guest": isGuest,
		"exp":      time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(JWTSecret()))
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(JWTSecret()), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	if _, ok := claims["user_id"].(float64); !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func setClaims(c *fiber.Ctx, claims jwt.MapClaims) {
	c.Locals("userId", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("isGuest", claims["is_guest"])
}

func AuthMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Missing authorization header"})
	}

	tokenString := bearerToken(c)
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid authorization header format"})
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
	}

	setClaims(c, claims)
	return c.Next()
}

// WebSocketAuthMiddleware authenticates live-update connections. Browsers
// cannot set headers on a WebSocket handshake, so the token may also come
// from the "token" query parameter or cookie.
func WebSocketAuthMiddleware(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		tokenString = c.Cookies("token")
	}
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Missing token"})
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
	}

	setClaims(c, claims)
	return c.Next()
}

// TrustedIdentityMiddleware guards endpoints that accept identities vouched
// for by the auth proxy. The proxy proves itself with a shared secret header.
func TrustedIdentityMiddleware(secret string) fiber.Handler {
	return sharedSecret("X-Identity-Secret", secret, "Untrusted identity source")
}

// AdminKeyMiddleware guards operator endpoints with the X-Admin-Key header.
func AdminKeyMiddleware(key string) fiber.Handler {
	return sharedSecret("X-Admin-Key", key, "Invalid admin key")
}

func sharedSecret(header, secret, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(header)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return c.Status(401).JSON(fiber.Map{"success": false, "error": message})
		}
		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	if id, ok := userID.(float64); ok {
		return uint(id), nil
	}

	if id, ok := userID.(uint); ok {
		return id, nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}

func GetUsername(c *fiber.Ctx) (string, error) {
	username := c.Locals("username")
	if username == nil {
		return "", fiber.NewError(401, "User not authenticated")
	}

	if name, ok := username.(string); ok {
		return name, nil
	}

	return "", fiber.NewError(401, "Invalid username format")
}

func IsGuest(c *fiber.Ctx) bool {
	isGuest := c.Locals("isGuest")
	if isGuest == nil {
		return false
	}

	if guest, ok := isGuest.(bool); ok {
		return guest
	}

	return false
}
