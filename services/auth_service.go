package services

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/fashionmart/storefront-api/config"
	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// SessionClaims is the token payload. Subject carries the account id.
type SessionClaims struct {
	Kind      string `json:"kind"`
	SessionID string `json:"sid"`
	jwt.StandardClaims
}

// Session is an issued login
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Identity  models.Identity `json:"identity"`
}

// AuthService verifies credentials and issues session tokens
type AuthService struct {
	store    *repository.Store
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	cost     int
}

// NewAuthService creates an auth service from the token settings in cfg
func NewAuthService(store *repository.Store, cfg *config.Config) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cost := bcrypt.DefaultCost
	if cfg.IsTest() {
		cost = bcrypt.MinCost
	}
	return &AuthService{
		store:    store,
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      ttl,
		cost:     cost,
	}
}

// HashPassword returns a salted bcrypt hash
func (s *AuthService) HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", newError(KindValidation, "password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", newError(KindValidation, "password cannot be hashed")
	}
	return string(hash), nil
}

// CustomerRegistration is the input for a new customer account
type CustomerRegistration struct {
	Username string
	Password string
	Name     string
	Email    string
	Number   string
	Road     string
	Area     string
	City     string
	District string
}

// RegisterCustomer creates a customer account
func (s *AuthService) RegisterCustomer(ctx context.Context, r CustomerRegistration) (*models.Customer, error) {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Email) == "" {
		return nil, newError(KindValidation, "username, name and email are required")
	}
	hash, err := s.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Username:     strings.TrimSpace(r.Username),
		PasswordHash: hash,
		Name:         strings.TrimSpace(r.Name),
		Email:        strings.TrimSpace(r.Email),
		Number:       r.Number,
		Road:         r.Road,
		Area:         r.Area,
		City:         r.City,
		District:     r.District,
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, newError(KindAlreadyExists, "a customer with this username or email already exists")
		}
		return nil, persistenceError("failed to create customer", err)
	}
	return customer, nil
}

// DeliveryManRegistration is the input for a new delivery agent
type DeliveryManRegistration struct {
	Username string
	Password string
	Name     string
	Phone    string
}

// CreateDeliveryMan creates an active delivery agent account
func (s *AuthService) CreateDeliveryMan(ctx context.Context, r DeliveryManRegistration) (*models.DeliveryMan, error) {
	if strings.TrimSpace(r.Username) == "" || strings.TrimSpace(r.Name) == "" {
		return nil, newError(KindValidation, "username and name are required")
	}
	hash, err := s.HashPassword(r.Password)
	if err != nil {
		return nil, err
	}

	agent := &models.DeliveryMan{
		Username:     strings.TrimSpace(r.Username),
		PasswordHash: hash,
		Name:         strings.TrimSpace(r.Name),
		Phone:        r.Phone,
		Status:       models.AgentStatusActive,
	}
	if err := s.store.CreateDeliveryMan(ctx, agent); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, newError(KindAlreadyExists, "a delivery man with this username already exists")
		}
		return nil, persistenceError("failed to create delivery man", err)
	}
	return agent, nil
}

// EnsureAdmin creates the bootstrap admin if no admin with that name exists
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.store.GetAdminByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !repository.IsNotFound(err) {
		return persistenceError("failed to look up admin", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.CreateAdmin(ctx, &models.Admin{Username: username, PasswordHash: hash, Name: username}); err != nil {
		return persistenceError("failed to create admin", err)
	}
	slog.InfoContext(ctx, "bootstrap admin created", "username", username)
	return nil
}

var errInvalidCredentials = newError(KindUnauthorized, "invalid username or password")

// Login checks the credentials of the given account kind and issues a session
func (s *AuthService) Login(ctx context.Context, kind models.IdentityKind, username, password string) (*Session, error) {
	var (
		id   uint
		hash string
		err  error
	)
	switch kind {
	case models.IdentityCustomer:
		var c *models.Customer
		if c, err = s.store.GetCustomerByUsername(ctx, username); err == nil {
			id, hash = c.ID, c.PasswordHash
		}
	case models.IdentityDeliveryMan:
		var d *models.DeliveryMan
		if d, err = s.store.GetDeliveryManByUsername(ctx, username); err == nil {
			if !d.IsActive() {
				return nil, newError(KindUnauthorized, "account is inactive")
			}
			id, hash = d.ID, d.PasswordHash
		}
	case models.IdentityAdmin:
		var a *models.Admin
		if a, err = s.store.GetAdminByUsername(ctx, username); err == nil {
			id, hash = a.ID, a.PasswordHash
		}
	default:
		return nil, newError(KindValidation, "unknown account kind %q", kind)
	}
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errInvalidCredentials
		}
		return nil, persistenceError("failed to look up account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errInvalidCredentials
		}
		return nil, newError(KindUnauthorized, "stored credential is unusable")
	}

	return s.IssueSession(models.Identity{Kind: kind, ID: id, SessionID: uuid.NewString()})
}

// IssueSession signs a token for the identity
func (s *AuthService) IssueSession(identity models.Identity) (*Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		Kind:      string(identity.Kind),
		SessionID: identity.SessionID,
		StandardClaims: jwt.StandardClaims{
			Audience:  s.audience,
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    s.issuer,
			Subject:   strconv.FormatUint(uint64(identity.ID), 10),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, persistenceError("failed to sign session token", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, Identity: identity}, nil
}
