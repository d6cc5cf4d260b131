package router

import (
	"github.com/labstack/echo/v4"

	"car-catalog/internal/database"
	"car-catalog/internal/handler"
	"car-catalog/internal/handler/auth"
	"car-catalog/internal/handler/cars"
	"car-catalog/internal/handler/users"
	"car-catalog/internal/middleware"
	"car-catalog/internal/storage"
)

// Setup registers all routes and their middleware.
func Setup(e *echo.Echo, db database.DB, images storage.Store) {
	e.GET("/ping", handler.PingHandler(db), middleware.RequireAuth)

	e.POST("/token", auth.TokenHandler(db))
	e.GET("/users/me", users.GetMyUserHandler(db), middleware.RequireAuth)

	carModels := e.Group("/car_models", middleware.RequireAuth)
	carModels.POST("", cars.CreateCarModelHandler(db))
	carModels.GET("", cars.ListCarModelsHandler(db))
	carModels.GET("/:id", cars.GetCarModelHandler(db))
	carModels.PUT("/:id", cars.UpdateCarModelHandler(db))
	carModels.DELETE("/:id", cars.DeleteCarModelHandler(db, images))
	carModels.POST("/:id/image", cars.UploadCarModelImageHandler(db, images))
	carModels.PUT("/:id/image", cars.ReplaceCarModelImageHandler(db, images))
	carModels.DELETE("/:id/image", cars.DeleteCarModelImageHandler(db, images))
}
