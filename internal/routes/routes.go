// Файл: internal/routes/routes.go
package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"intake-bridge/internal/controllers"
	"intake-bridge/internal/services"
)

func InitRoutes(e *echo.Echo, intakeService services.IntakeServiceInterface, logger *zap.Logger) {
	intakeController := controllers.NewIntakeController(intakeService, logger)

	api := e.Group("/api")
	api.POST("/intake", intakeController.HandleIntake)
}
