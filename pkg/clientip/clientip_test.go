package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	t.Run("x-forwarded-for wins, first hop only", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		r.Header.Set("X-Real-IP", "10.0.0.2")
		assert.Equal(t, "203.0.113.7", RealClientIP(r))
	})

	t.Run("x-real-ip is the fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("X-Real-IP", "203.0.113.9")
		assert.Equal(t, "203.0.113.9", RealClientIP(r))
	})

	t.Run("remote addr without headers", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.1:52011"
		assert.Equal(t, "192.0.2.1", RealClientIP(r))
	})

	t.Run("remote addr without port", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "192.0.2.1"
		assert.Equal(t, "192.0.2.1", RealClientIP(r))
	})
}
