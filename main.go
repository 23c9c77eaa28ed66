package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remindly/internal/bot"
	"remindly/internal/config"
	"remindly/internal/scanner"
	"remindly/internal/store"
	"remindly/internal/twilio"
)

func main() {
	once := flag.Bool("once", false, "run a single scan pass and exit; for driving the scan from an external scheduler")
	flag.Parse()

	logger := log.New(os.Stdout, "[remindly] ", log.LstdFlags|log.Lshortfile)
	cfg := config.Load()

	st, err := newStore(cfg, logger)
	if err != nil {
		logger.Fatalf("store init failed: %v", err)
	}
	if err := st.VerifySchema(context.Background()); err != nil {
		logger.Fatalf("store schema check failed: %v", err)
	}

	gateway, err := twilio.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber, logger)
	if err != nil {
		logger.Fatalf("twilio init failed: %v", err)
	}
	sc := scanner.New(st, gateway, cfg.LocalTimezone, cfg.CallTimeout, logger)

	if *once {
		report, err := sc.Run(context.Background())
		if err != nil {
			logger.Printf("scan pass aborted: %v", err)
			os.Exit(1)
		}
		logger.Printf("pass complete: %d examined, %d dispatched, %d failed", report.Examined, report.Dispatched, len(report.Failures))
		return
	}

	reminderBot := bot.New(cfg, st, sc, logger)
	if err := reminderBot.StartScheduler(); err != nil {
		logger.Fatalf("scheduler start: %v", err)
	}

	http.Handle("/twilio/webhook", reminderBot.Handler())

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: nil,
	}

	go func() {
		logger.Printf("server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	waitForShutdown(server, reminderBot, logger)
}

// newStore picks the table backend: Google Sheets when a spreadsheet id is
// configured, otherwise a database.
func newStore(cfg *config.Config, logger *log.Logger) (store.Store, error) {
	if cfg.SpreadsheetID != "" {
		logger.Printf("store: Google Sheet %s (%s)", cfg.SpreadsheetID, cfg.SheetName)
		return store.NewSheetStore(context.Background(), cfg.ServiceAccount, cfg.SpreadsheetID, cfg.SheetName)
	}
	if cfg.DatabaseURL != "" {
		logger.Printf("store: PostgreSQL")
	} else {
		logger.Printf("store: SQLite reminders.db")
	}
	return store.OpenDatabase(cfg.DatabaseURL)
}

func waitForShutdown(server *http.Server, reminderBot *bot.Bot, logger *log.Logger) {
	stopCtx := make(chan os.Signal, 1)
	signal.Notify(stopCtx, syscall.SIGINT, syscall.SIGTERM)
	<-stopCtx
	logger.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("server shutdown error: %v", err)
	}
	reminderBot.StopScheduler()
}
