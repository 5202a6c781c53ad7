package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BookingTimezone != "America/Winnipeg" {
		t.Errorf("BookingTimezone = %q, want America/Winnipeg", cfg.BookingTimezone)
	}
	if cfg.BookingHorizonWeeks != 4 {
		t.Errorf("BookingHorizonWeeks = %d, want 4", cfg.BookingHorizonWeeks)
	}
	if cfg.AdminTokenTTL != 12*time.Hour {
		t.Errorf("AdminTokenTTL = %v, want 12h", cfg.AdminTokenTTL)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("CORSAllowedOrigins = %v, want nil", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOOKING_HORIZON_WEEKS", "8")
	t.Setenv("AVAILABILITY_CACHE_TTL", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://twisthair.ca, https://admin.twisthair.ca")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.BookingHorizonWeeks != 8 {
		t.Errorf("BookingHorizonWeeks = %d, want 8", cfg.BookingHorizonWeeks)
	}
	if cfg.AvailabilityCacheTTL != 2*time.Minute {
		t.Errorf("AvailabilityCacheTTL = %v, want 2m", cfg.AvailabilityCacheTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.twisthair.ca" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("BOOKING_HORIZON_WEEKS", "soon")
	t.Setenv("ADMIN_TOKEN_TTL", "forever")

	cfg := Load()

	if cfg.BookingHorizonWeeks != 4 {
		t.Errorf("BookingHorizonWeeks = %d, want default 4", cfg.BookingHorizonWeeks)
	}
	if cfg.AdminTokenTTL != 12*time.Hour {
		t.Errorf("AdminTokenTTL = %v, want default 12h", cfg.AdminTokenTTL)
	}
}
