package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"remindly/internal/store"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port                 string
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string

	// Store selection: a spreadsheet id means Google Sheets, otherwise a
	// database (PostgreSQL when DatabaseURL is set, local SQLite if not).
	SpreadsheetID  string
	SheetName      string
	ServiceAccount store.ServiceAccount
	DatabaseURL    string

	LocalTimezone *time.Location
	CallTimeout   time.Duration
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	timezoneName := getenvDefault("LOCAL_TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid LOCAL_TIMEZONE %q, defaulting to system local: %v", timezoneName, err)
		location = time.Local
	}

	return &Config{
		Port:                 getenvDefault("PORT", "8080"),
		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: getenvDefault("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886"),
		SpreadsheetID:        os.Getenv("SPREADSHEET_ID"),
		SheetName:            getenvDefault("SHEET_NAME", "Sheet1"),
		ServiceAccount:       loadServiceAccount(),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		LocalTimezone:        location,
		CallTimeout:          time.Duration(parseIntEnv("CALL_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// loadServiceAccount assembles the Google service-account key from its
// individual environment variables. PRIVATE_KEY_RAW carries literal "\n"
// sequences that must become real newlines.
func loadServiceAccount() store.ServiceAccount {
	return store.ServiceAccount{
		ProjectID:     strings.TrimSpace(os.Getenv("PROJECT_ID")),
		PrivateKeyID:  strings.TrimSpace(os.Getenv("PRIVATE_KEY_ID")),
		PrivateKey:    strings.ReplaceAll(strings.TrimSpace(os.Getenv("PRIVATE_KEY_RAW")), `\n`, "\n"),
		ClientEmail:   strings.TrimSpace(os.Getenv("CLIENT_EMAIL")),
		ClientID:      strings.TrimSpace(os.Getenv("CLIENT_ID")),
		ClientCertURL: strings.TrimSpace(os.Getenv("CLIENT_X509_CERT_URL")),
	}
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

func parseIntEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as int: %v", key, value, err)
		return def
	}
	return parsed
}
