package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/centbook/centbook/internal/account"
	accountStore "github.com/centbook/centbook/internal/account/store"
	"github.com/centbook/centbook/internal/auth"
	authStore "github.com/centbook/centbook/internal/auth/store"
	"github.com/centbook/centbook/internal/budget"
	budgetStore "github.com/centbook/centbook/internal/budget/store"
	"github.com/centbook/centbook/internal/config"
	"github.com/centbook/centbook/internal/database"
	"github.com/centbook/centbook/internal/export"
	centbookHttp "github.com/centbook/centbook/internal/http"
	accountHandler "github.com/centbook/centbook/internal/http/account"
	authHandler "github.com/centbook/centbook/internal/http/auth"
	budgetHandler "github.com/centbook/centbook/internal/http/budget"
	exportHandler "github.com/centbook/centbook/internal/http/export"
	importHandler "github.com/centbook/centbook/internal/http/importcsv"
	matchingHandler "github.com/centbook/centbook/internal/http/matching"
	reportHandler "github.com/centbook/centbook/internal/http/report"
	txHandler "github.com/centbook/centbook/internal/http/transaction"
	"github.com/centbook/centbook/internal/importer"
	"github.com/centbook/centbook/internal/matching"
	matchingStore "github.com/centbook/centbook/internal/matching/store"
	"github.com/centbook/centbook/internal/report"
	reportStore "github.com/centbook/centbook/internal/report/store"
	"github.com/centbook/centbook/internal/transaction"
	txStore "github.com/centbook/centbook/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		accountService     = account.NewService(accountStore.New(db))
		transactionService = transaction.NewService(txStore.New(db), accountService)
		budgetService      = budget.NewService(budgetStore.New(db), accountService)
		reportService      = report.NewService(reportStore.New(db), accountService, budgetService, transactionService)
		matchingService    = matching.NewService(matchingStore.New(db))
		importService      = importer.NewService(matchingService)
		exportService      = export.NewService(transactionService, accountService)
		authService        = auth.NewService(authStore.New(db), []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	)

	var (
		authH        = authHandler.NewHandler(authService)
		accountH     = accountHandler.NewHandler(accountService)
		transactionH = txHandler.NewHandler(transactionService, accountService)
		budgetH      = budgetHandler.NewHandler(budgetService)
		reportH      = reportHandler.NewHandler(reportService)
		importH      = importHandler.NewHandler(importService, transactionService)
		matchingH    = matchingHandler.NewHandler(matchingService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := centbookHttp.New(authService, authH, accountH, transactionH, budgetH, reportH, importH, matchingH, exportH)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
