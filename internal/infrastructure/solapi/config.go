package solapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/masgolf/backend/internal/infrastructure/config"
)

// DefaultBaseURL is the production API endpoint
const DefaultBaseURL = "https://api.solapi.com"

// Errors for Solapi configuration
var (
	ErrMissingAPIKey    = errors.New("solapi: api key is required")
	ErrMissingAPISecret = errors.New("solapi: api secret is required")
	ErrMissingSender    = errors.New("solapi: sender number is required")
)

// Config holds the credentials and pacing of the client
type Config struct {
	APIKey     string
	APISecret  string
	Sender     string
	BaseURL    string
	PFID       string
	RatePerSec float64
	Timeout    time.Duration
}

// NewConfig builds the client config from the application config
func NewConfig(sms config.SolapiConfig, kakao config.KakaoConfig) *Config {
	return &Config{
		APIKey:     sms.APIKey,
		APISecret:  sms.APISecret,
		Sender:     sms.Sender,
		BaseURL:    sms.BaseURL,
		PFID:       kakao.PFID,
		RatePerSec: sms.RatePerSec,
		Timeout:    sms.Timeout,
	}
}

// Validate checks required fields and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.APISecret == "" {
		return ErrMissingAPISecret
	}
	if c.Sender == "" {
		return ErrMissingSender
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 5
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// Sign returns the HMAC-SHA256 signature of date+salt keyed by the API secret
func (c *Config) Sign(date, salt string) string {
	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(date + salt))
	return hex.EncodeToString(mac.Sum(nil))
}

// AuthorizationHeader builds the Authorization header value for one request
func (c *Config) AuthorizationHeader(now time.Time) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	salt := hex.EncodeToString(buf)
	date := now.UTC().Format(time.RFC3339)
	return "HMAC-SHA256 apiKey=" + c.APIKey + ", date=" + date + ", salt=" + salt + ", signature=" + c.Sign(date, salt), nil
}
