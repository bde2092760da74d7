package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendtrack/internal/classqr"
	"attendtrack/internal/navigation"
	"attendtrack/internal/screens"
	"attendtrack/internal/session"
)

var errJournalDisabled = errors.New("navigation journal not configured")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var fieldErr *navigation.FieldError
	switch {
	case errors.As(err, &fieldErr),
		errors.Is(err, navigation.ErrInvalidRole),
		errors.Is(err, navigation.ErrUnknownScreen),
		errors.Is(err, navigation.ErrUnknownTab),
		errors.Is(err, screens.ErrInvalidGoal),
		errors.Is(err, screens.ErrInvalidDate),
		errors.Is(err, screens.ErrInvalidFilter),
		errors.Is(err, screens.ErrInvalidMonth),
		errors.Is(err, classqr.ErrEmptyCode):
		return http.StatusBadRequest
	case errors.Is(err, navigation.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, navigation.ErrInvalidTransition),
		errors.Is(err, navigation.ErrNotLoggedIn),
		errors.Is(err, session.ErrWrongScreen):
		return http.StatusConflict
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, screens.ErrUnknownStudent),
		errors.Is(err, screens.ErrUnknownAlert),
		errors.Is(err, screens.ErrUnknownProfileAction):
		return http.StatusNotFound
	case errors.Is(err, errJournalDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
