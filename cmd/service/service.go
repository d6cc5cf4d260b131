package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"car-catalog/internal/database"
	"car-catalog/internal/model"
	"car-catalog/internal/router"
	"car-catalog/internal/service"
	"car-catalog/internal/storage"
	"car-catalog/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	_ "car-catalog/docs"

	echoSwagger "github.com/swaggo/echo-swagger"
)

// CustomValidator wraps go-playground/validator for Echo
// swagger:ignore
type CustomValidator struct {
	validator *validator.Validate
}

// Validate calls the underlying validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

var (
	newPgxPool      = database.NewPgxPool
	newDirStore     = func(dir string) (storage.Store, error) { return storage.NewDirStore(dir) }
	runMigrationsFn = database.RunMigrations
	seedAdminFn     = seedAdmin
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc        = os.Exit
)

// seedAdmin creates the initial user from ADMIN_USERNAME and ADMIN_PASSWORD.
// It is a no-op when the variables are unset or the user already exists.
func seedAdmin(ctx context.Context, db database.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	if _, err := store.GetUserByUsername(ctx, db, username); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("seedAdmin: %w", err)
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return fmt.Errorf("seedAdmin: %w", err)
	}
	user := &model.User{
		Username:     username,
		Email:        os.Getenv("ADMIN_EMAIL"),
		PasswordHash: hash,
	}
	if _, err := store.CreateUser(ctx, db, user); err != nil {
		return fmt.Errorf("seedAdmin: %w", err)
	}
	return nil
}

func run() error {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}

	imageDir := os.Getenv("IMAGE_DIR")
	if imageDir == "" {
		imageDir = "uploaded_images"
	}

	if err := runMigrationsFn(dbURL); err != nil {
		return fmt.Errorf("migrations failed: %v", err)
	}

	db, err := newPgxPool(context.Background(), dbURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %v", err)
	}
	defer db.Close()

	images, err := newDirStore(imageDir)
	if err != nil {
		return fmt.Errorf("image store setup failed: %v", err)
	}

	if err := seedAdminFn(context.Background(), db); err != nil {
		return fmt.Errorf("admin seeding failed: %v", err)
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	router.Setup(e, db, images)

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return startServer(e, ":8080")
}
