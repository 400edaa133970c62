package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config collects every environment-driven setting so handlers and services
// receive an explicit handle instead of reading globals.
type Config struct {
	Port   string
	DBPath string

	// The designated administrator account, seeded at startup when absent.
	AdminEmail    string
	AdminName     string
	AdminIPN      string
	AdminPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	AllowedOrigins []string
}

// Load reads configs/.env when present and falls back to development
// defaults for anything unset.
func Load() Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBPath:        getenv("DB_PATH", "taxagent.db"),
		AdminEmail:    getenv("ADMIN_EMAIL", "tetianalytvynovska@gmail.com"),
		AdminName:     getenv("ADMIN_NAME", "System Admin"),
		AdminIPN:      getenv("ADMIN_IPN", "0000000000"),
		AdminPassword: getenv("ADMIN_PASSWORD", "0987654321"),
		SMTPHost:      getenv("SMTP_HOST", ""),
		SMTPPort:      getenvInt("SMTP_PORT", 587),
		SMTPUser:      getenv("SMTP_USER", ""),
		SMTPPassword:  getenv("SMTP_PASSWORD", ""),
		SMTPFrom:      getenv("SMTP_FROM", "noreply@taxagent.local"),
	}

	origins := getenv("ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg
}

// MailConfigured reports whether an SMTP host was provided; without one the
// server falls back to a no-op mailer and 2FA codes are only persisted.
func (c Config) MailConfigured() bool {
	return c.SMTPHost != ""
}

// SMTPPortString formats the SMTP port for dialing.
func (c Config) SMTPPortString() string {
	return strconv.Itoa(c.SMTPPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
