package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Payment gateway credentials. KeySecret signs/verifies the
	// checkout callback HMAC and must never be logged.
	PaymentKeyID     string
	PaymentKeySecret string
	Currency         string

	// Flat per-checkout delivery fee and tax percentage applied on the
	// cart subtotal.
	DeliveryFee float64
	TaxRate     float64
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "hostelmart.db" // sqlite file in project root
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./hostelmart.log"
	}
	keyID := os.Getenv("PAYMENT_KEY_ID")
	if keyID == "" {
		keyID = "hm_test_key"
	}
	secret := os.Getenv("PAYMENT_KEY_SECRET")
	if secret == "" {
		secret = "hm_test_secret"
	}
	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "INR"
	}

	cfg := Config{
		Port:             port,
		DBDSN:            dsn,
		LogFile:          logFile,
		PaymentKeyID:     keyID,
		PaymentKeySecret: secret,
		Currency:         currency,
		DeliveryFee:      envFloat("DELIVERY_FEE", 10),
		TaxRate:          envFloat("TAX_RATE", 5),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s CURRENCY=%s DELIVERY_FEE=%.2f TAX_RATE=%.2f",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.Currency, cfg.DeliveryFee, cfg.TaxRate)
	return cfg
}

func envFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		log.Printf("[config] ignoring bad %s=%q", key, s)
		return def
	}
	return f
}
