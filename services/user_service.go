// services/user_service.go - Accounts: identity-provider users, guests, password logins
package services

import (
	"biblenotes/models"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotGuest           = errors.New("account is already registered")
)

const minPasswordLength = 6

// Profile is what the identity provider tells us about a user on first sign-in.
type Profile struct {
	Name      string
	GivenName string
	Email     string
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetOrCreateUser returns the user bound to tokenIdentifier, creating it from
// profile the first time the identity is seen.
func (s *UserService) GetOrCreateUser(tokenIdentifier string, profile Profile) (*models.User, error) {
	tokenIdentifier = strings.TrimSpace(tokenIdentifier)
	if tokenIdentifier == "" {
		return nil, fmt.Errorf("%w: token identifier is required", ErrInvalidInput)
	}

	var user models.User
	err := s.db.Where("token_identifier = ?", tokenIdentifier).First(&user).Error
	if err == nil {
		s.db.Model(&user).Update("last_login", time.Now())
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		TokenIdentifier: tokenIdentifier,
		Username:        fmt.Sprintf("user_%s", uuid.New().String()[:8]),
		Email:           optionalEmail(profile.Email),
		Name:            strings.TrimSpace(profile.Name),
		GivenName:       strings.TrimSpace(profile.GivenName),
		LastLogin:       time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateGuest creates a throwaway account. An empty name gets a generated one.
func (s *UserService) CreateGuest(name string) (*models.User, error) {
	id := uuid.New().String()

	username := strings.TrimSpace(name)
	if username == "" {
		username = fmt.Sprintf("Guest_%s", id[:8])
	}
	if s.usernameTaken(username, 0) {
		return nil, ErrUsernameTaken
	}

	user := models.User{
		TokenIdentifier: "guest|" + id,
		Username:        username,
		Name:            username,
		IsGuest:         true,
		LastLogin:       time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a password account.
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if s.usernameTaken(username, 0) {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		TokenIdentifier: "local|" + uuid.New().String(),
		Username:        username,
		Email:           optionalEmail(email),
		Name:            username,
		Password:        string(hashed),
		LastLogin:       time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate checks a password login and records the login time.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ? AND is_guest = ?", username, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	s.db.Model(&user).Update("last_login", user.LastLogin)
	return &user, nil
}

// UpgradeGuest turns a guest into a password account, keeping its notes.
func (s *UserService) UpgradeGuest(userID uint, username, email, password string) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsGuest {
		return nil, ErrNotGuest
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if s.usernameTaken(username, userID) {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.Username = username
	user.Email = optionalEmail(email)
	user.Password = string(hashed)
	user.IsGuest = false
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) usernameTaken(username string, exceptID uint) bool {
	var count int64
	s.db.Model(&models.User{}).Where("username = ? AND id != ?", username, exceptID).Count(&count)
	return count > 0
}

// optionalEmail maps "" to NULL so the unique index only covers real addresses.
func optionalEmail(email string) *string {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	return &email
}
