// Package cloudinary はCloudinary画像ホスティングAPIのクライアントを提供します。
package cloudinary

import "time"

const (
	// DefaultAPIBaseURL はCloudinary REST APIのベースURLです。
	DefaultAPIBaseURL = "https://api.cloudinary.com"
	// DefaultDeliveryBaseURL は画像配信URLのベースです。
	DefaultDeliveryBaseURL = "https://res.cloudinary.com"
)

// Config holds configuration for the Cloudinary API client.
type Config struct {
	CloudName       string        // Cloudinary cloud name
	APIKey          string        // API key for request signing
	APISecret       string        // API secret for request signing
	APIBaseURL      string        // Base URL for the REST API (tests override this)
	DeliveryBaseURL string        // Base URL for delivery/transformation URLs
	Timeout         time.Duration // HTTP request timeout
}

// withDefaults fills unset URL fields with the production endpoints.
func (c Config) withDefaults() Config {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.DeliveryBaseURL == "" {
		c.DeliveryBaseURL = DefaultDeliveryBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}
