package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v3"
	"github.com/titikpos/payroll-backend-go/internal/config"
	appHTTP "github.com/titikpos/payroll-backend-go/internal/handler/http"
	"github.com/titikpos/payroll-backend-go/internal/pkg/database"
	"github.com/titikpos/payroll-backend-go/internal/pkg/jwt"
	"github.com/titikpos/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/titikpos/payroll-backend-go/internal/service/attendance"
	payrollService "github.com/titikpos/payroll-backend-go/internal/service/payroll"
	salesService "github.com/titikpos/payroll-backend-go/internal/service/sales"
	scheduleService "github.com/titikpos/payroll-backend-go/internal/service/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       logLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "titikpos-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	outletRepo := postgresql.NewOutletRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	orderRepo := postgresql.NewOrderRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	resolver := scheduleService.NewResolver(outletRepo)
	attendanceAgg := attendanceService.NewAggregator(shiftRepo)
	salesAgg := salesService.NewAggregator(orderRepo)
	service := payrollService.NewPayrollService(payrollRepo, employeeRepo, resolver, attendanceAgg, salesAgg, logger)

	payrollHandler := appHTTP.NewPayrollHandler(service)
	router := appHTTP.NewRouter(logger, JWTService, payrollHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("server starting", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("server stopped", "error", err)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
