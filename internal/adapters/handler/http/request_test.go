package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	d, err := parseDay("", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 3, 10), d)

	d, err = parseDay("2026-02-28", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, day(2026, 2, 28), d)

	_, err = parseDay("28-02-2026", fixedNow)
	assert.Error(t, err)
}

func TestParseRange_FullYearAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?start_date=2024-01-01&end_date=2024-12-31", nil)

	r, err := parseRange(c, "start_date", "end_date", fixedNow)

	require.NoError(t, err)
	assert.Equal(t, 366, r.Days())
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &domain.ValidationError{Message: "hours must be between 0 and 24"}, http.StatusBadRequest},
		{"wrapped kind", fmt.Errorf("svc: %w", domain.ErrInvalidActivityKind), http.StatusBadRequest},
		{"targets", domain.ErrInvalidWaterTarget, http.StatusBadRequest},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"activity", fmt.Errorf("svc: %w", domain.ErrActivityNotFound), http.StatusNotFound},
		{"user", domain.ErrUserNotFound, http.StatusNotFound},
		{"conflict", domain.ErrEmailAlreadyExists, http.StatusConflict},
		{"empty day", domain.ErrNoActivityOnDay, http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
		})
	}

	t.Run("Unknown errors are attached for the request logger", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		respondError(c, errors.New("boom"))

		require.Len(t, c.Errors, 1)
		assert.EqualError(t, c.Errors[0].Err, "boom")
	})
}
