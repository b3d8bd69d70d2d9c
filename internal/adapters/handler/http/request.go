package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	dateLayout = "2006-01-02"
	// Longest range a summary or listing may span.
	maxRangeDays = 366
	// Default listing window when no dates are given.
	defaultRangeDays = 7
)

var errRangeTooLarge = errors.New("date range too large, max 1 year allowed")

// callerID returns the authenticated user, aborting with 401 when absent.
func callerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID, true
}

// subjectID is the user whose data a read request targets. Coaches and
// admins may pass ?user_id= to read someone else's progress.
func subjectID(c *gin.Context) (string, bool) {
	userID, ok := callerID(c)
	if !ok {
		return "", false
	}

	other := c.Query("user_id")
	if other == "" || other == userID {
		return userID, true
	}
	if !middleware.GetRole(c).CanViewOthers() {
		c.JSON(http.StatusForbidden, gin.H{"error": domain.ErrForbidden.Error()})
		return "", false
	}
	return other, true
}

// parseDay reads a YYYY-MM-DD date, defaulting to the day of now.
func parseDay(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return domain.Day(now), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return domain.Day(t), nil
}

// parseRange reads start and end query parameters. A missing end is today,
// a missing start is the week ending on end.
func parseRange(c *gin.Context, startKey, endKey string, now time.Time) (domain.DateRange, error) {
	end, err := parseDay(c.Query(endKey), now)
	if err != nil {
		return domain.DateRange{}, errors.New("invalid " + endKey + " format, expected YYYY-MM-DD")
	}

	start := end.AddDate(0, 0, -(defaultRangeDays - 1))
	if v := c.Query(startKey); v != "" {
		start, err = parseDay(v, now)
		if err != nil {
			return domain.DateRange{}, errors.New("invalid " + startKey + " format, expected YYYY-MM-DD")
		}
	}

	r, err := domain.NewDateRange(start, end)
	if err != nil {
		return domain.DateRange{}, err
	}
	if r.Days() > maxRangeDays {
		return domain.DateRange{}, errRangeTooLarge
	}
	return r, nil
}

// respondError maps domain errors to status codes. Anything unknown is a 500
// and is attached to the context for the request logger.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, domain.ErrInvalidActivityKind),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidCalorieTarget),
		errors.Is(err, domain.ErrInvalidProteinTarget),
		errors.Is(err, domain.ErrInvalidWaterTarget),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, domain.ErrNoActivityOnDay):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
