package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/fashionmart/storefront-api/config"
	"github.com/fashionmart/storefront-api/models"
	"github.com/fashionmart/storefront-api/services"
	"github.com/fashionmart/storefront-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestSecret signs session tokens in tests
const TestSecret = "fashion-mart-test-secret-0123456789"

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// Env is a fully wired application backed by an in-memory database
type Env struct {
	DB       *gorm.DB
	Config   *config.Config
	Sessions *services.MemorySessionStore
	Notifier *services.MockNotifier
	Images   *services.MockImageService
}

// TestConfig returns the default configuration for tests
func TestConfig() *config.Config {
	cfg := config.Default()
	cfg.GoEnv = "test"
	cfg.DatabaseURL = "sqlite://:memory:"
	cfg.JWTSecret = TestSecret
	cfg.SessionTTL = time.Hour
	cfg.DBTimeout = 5 * time.Second
	return cfg
}

// NewTestDB opens a migrated in-memory SQLite database. A single connection
// keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// Setup installs a fresh database, configuration and mock services as the
// package-level instances the controllers use
func Setup(t *testing.T) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &Env{
		DB:       NewTestDB(t),
		Config:   TestConfig(),
		Sessions: services.NewMemorySessionStore(time.Hour),
		Notifier: services.NewMockNotifier(),
		Images:   services.NewMockImageService(),
	}

	config.SetDB(env.DB)
	config.SetConfig(env.Config)
	env.Sessions.SetAsMockForTesting()
	env.Images.SetAsMockForTesting()
	services.SetNotifier(env.Notifier)
	utils.UploadDir = t.TempDir()

	t.Cleanup(func() {
		config.SetDB(nil)
		config.SetConfig(nil)
		services.SetSessionStore(nil)
		services.SetImageService(nil)
		services.SetNotifier(services.LogNotifier{})
	})
	return env
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// CreateCustomer inserts a customer whose password is "password"
func CreateCustomer(t *testing.T, db *gorm.DB, username string) *models.Customer {
	t.Helper()
	customer := &models.Customer{
		Username:     username,
		PasswordHash: hash(t, "password"),
		Name:         "Customer " + username,
		Email:        username + "@example.com",
		Number:       "12",
		Road:         "Lake Road",
		Area:         "Dhanmondi",
		City:         "Dhaka",
		District:     "Dhaka",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateDeliveryMan inserts a delivery man whose password is "password"
func CreateDeliveryMan(t *testing.T, db *gorm.DB, username, status string) *models.DeliveryMan {
	t.Helper()
	agent := &models.DeliveryMan{
		Username:     username,
		PasswordHash: hash(t, "password"),
		Name:         "Agent " + username,
		Phone:        "01700000000",
		Status:       status,
	}
	require.NoError(t, db.Create(agent).Error)
	return agent
}

// CreateAdmin inserts an admin whose password is "password"
func CreateAdmin(t *testing.T, db *gorm.DB, username string) *models.Admin {
	t.Helper()
	admin := &models.Admin{Username: username, PasswordHash: hash(t, "password"), Name: username}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

// CreateProduct inserts a product with the given price and stock
func CreateProduct(t *testing.T, db *gorm.DB, name, category, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// ReloadProduct reads a product back from the database
func ReloadProduct(t *testing.T, db *gorm.DB, id uint) *models.Product {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, id).Error)
	return &product
}
