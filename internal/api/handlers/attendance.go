package handlers

import (
	"errors"
	"log"
	"net/http"

	"rollcall/internal/config"
	"rollcall/internal/policy"
	"rollcall/internal/store"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler handles attendance submissions
type AttendanceHandler struct {
	config    *config.Config
	store     *store.DailyStore
	validator *policy.Validator
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(cfg *config.Config, st *store.DailyStore, validator *policy.Validator) *AttendanceHandler {
	return &AttendanceHandler{
		config:    cfg,
		store:     st,
		validator: validator,
	}
}

// SubmitRequest represents the attendance form fields. All fields are opaque
// strings at this layer; the validator parses the coordinates.
type SubmitRequest struct {
	Fingerprint string `form:"fingerprint"`
	Latitude    string `form:"latitude"`
	Longitude   string `form:"longitude"`
	Name        string `form:"name"`
	RollNo      string `form:"roll_no"`
	Comments    string `form:"comments"`
}

// Submit handles an attendance submission
// POST /submit
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Printf("submit: failed to parse form: %v", err)
		RespondServerError(c)
		return
	}

	// Resolved per request: the process may cross a midnight boundary.
	logName := h.store.FilenameForToday()

	result, err := h.validator.Evaluate(logName, policy.Submission{
		Fingerprint: req.Fingerprint,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Name:        req.Name,
		RollNo:      req.RollNo,
		Comments:    req.Comments,
	})
	if err != nil {
		log.Printf("submit: validation failed: %v", err)
		RespondServerError(c)
		return
	}

	switch result.Decision {
	case policy.DecisionDeniedOutOfRange:
		RespondOutOfRange(c, result.RadiusMeters)

	case policy.DecisionDeniedDuplicate:
		c.Redirect(http.StatusFound, "/denied")

	case policy.DecisionAccepted:
		if err := h.store.EnsureInitialized(logName); err != nil {
			log.Printf("submit: failed to initialize log %s: %v", logName, err)
			RespondServerError(c)
			return
		}
		if err := h.store.Append(logName, *result.Record); err != nil {
			if errors.Is(err, store.ErrDuplicateFingerprint) {
				// Lost the race to a concurrent submission with the same fingerprint.
				c.Redirect(http.StatusFound, "/denied")
				return
			}
			log.Printf("submit: failed to append to log %s: %v", logName, err)
			RespondServerError(c)
			return
		}
		c.Redirect(http.StatusFound, "/thank-you")

	default:
		log.Printf("submit: unexpected decision %d", result.Decision)
		RespondServerError(c)
	}
}
