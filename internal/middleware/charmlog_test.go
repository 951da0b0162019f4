package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCharmLog(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetLevel(log.DebugLevel)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	e := echo.New()
	e.Use(CharmLog())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, buf.String(), "path=/ok")
	assert.Contains(t, buf.String(), "status=204")

	buf.Reset()
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, buf.String(), "ERRO")
	assert.Contains(t, buf.String(), "status=502")
}
