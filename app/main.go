// Файл: app/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"intake-bridge/internal/dto"
	"intake-bridge/internal/routes"
	"intake-bridge/internal/services"
	"intake-bridge/pkg/config"
	apperrors "intake-bridge/pkg/errors"
	applogger "intake-bridge/pkg/logger"
	"intake-bridge/pkg/utils"
)

func main() {
	serve := flag.Bool("serve", false, "принимать записи клиентов по HTTP вместо stdin")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
		log.Fatalf("Не удалось создать каталог логов: %v", err)
	}
	logger := applogger.NewLogger(cfg.LogPath)
	defer logger.Sync()

	template, err := dto.LoadOrderTemplate(cfg.TemplatePath)
	if err != nil {
		logger.Fatal("Ошибка загрузки шаблона заказа", zap.Error(err))
	}

	recorder := services.NewIntakeRecorder(cfg.Storage.IntakeLogPath, logger)
	builder := services.NewOrderBuilder(template, logger)
	submitter := services.NewOrderSubmitter(cfg, logger)
	intakeService := services.NewIntakeService(recorder, builder, submitter, logger)

	if *serve {
		runServer(cfg, intakeService, logger)
		return
	}

	runOnce(os.Stdin, intakeService, logger)
}

// runOnce обрабатывает одну запись клиента из stdin. Все сбои печатаются
// как диагностика, процесс всегда завершается штатно.
func runOnce(in io.Reader, intakeService *services.IntakeService, logger *zap.Logger) {
	raw, err := io.ReadAll(in)
	if err != nil {
		fmt.Println("Ошибка чтения stdin:", err)
		return
	}

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		fmt.Println("Нет входных данных.")
		return
	}

	var rec dto.ClientRecord
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		fmt.Println("Неверный JSON:", err)
		return
	}

	result, err := intakeService.Process(context.Background(), &rec)
	if err != nil {
		if result != nil && result.Created {
			logger.Error("Заказ создан, но запрос номера не состоялся", zap.Error(err))
			return
		}
		logger.Error("Ошибка при создании заявки", zap.Error(err))
		return
	}

	if result.TicketNumber != "" {
		logger.Info("Готово", zap.String("ticket_number", result.TicketNumber))
	}
}

// runServer поднимает вебхук для бота: тот же конвейер, но на POST /api/intake.
func runServer(cfg *config.Config, intakeService *services.IntakeService, logger *zap.Logger) {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				utils.ErrorResponse(c, apperrors.ErrInternal, logger)
			}
			return err
		},
	}))

	routes.InitRoutes(e, intakeService, logger)

	logger.Info("Вебхук запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Сервер остановился с ошибкой", zap.Error(err))
	}
}
