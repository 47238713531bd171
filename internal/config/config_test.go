package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PRODUCT_INITIAL_STATUS", "REALTIME_PERSIST", "BCRYPT_COST", "JWT_EXPIRY", "APP_ENV", "RATE_LIMIT_WINDOW"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, "approved", cfg.ProductInitialStatus)
	assert.True(t, cfg.RealtimePersist)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 10, cfg.AuthRateLimitMax)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PRODUCT_INITIAL_STATUS", "Pending")
	t.Setenv("REALTIME_PERSIST", "false")
	t.Setenv("BCRYPT_COST", "99")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("APP_ENV", "PRODUCTION")
	t.Setenv("DB_HOST", "db.internal")
	cfg := Load()

	assert.Equal(t, "pending", cfg.ProductInitialStatus)
	assert.False(t, cfg.RealtimePersist)
	assert.Equal(t, bcrypt.MaxCost, cfg.BcryptCost)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.True(t, cfg.IsProduction())
	assert.Contains(t, cfg.DSN(), "host=db.internal")
}

func TestParseFallbacks(t *testing.T) {
	assert.Equal(t, "approved", parseInitialStatus("whatever"))
	assert.Equal(t, bcrypt.MinCost, parseBcryptCost("1"))
	assert.Equal(t, bcrypt.DefaultCost, parseBcryptCost("abc"))
	assert.Equal(t, time.Second, parseDuration("soon", time.Second))
	assert.True(t, parseBool("maybe", true))
}
