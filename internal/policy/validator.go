package policy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rollcall/internal/config"
	"rollcall/internal/geo"
	"rollcall/internal/models"
	"rollcall/internal/store"
)

// Decision classifies the outcome of validating one submission
type Decision int

const (
	// DecisionAccepted means the submission passed all checks
	DecisionAccepted Decision = iota
	// DecisionDeniedOutOfRange means the submitted location is outside the geofence
	DecisionDeniedOutOfRange
	// DecisionDeniedDuplicate means the fingerprint already appears in today's log
	DecisionDeniedDuplicate
)

// ErrMalformedInput is returned when a required coordinate field is missing
// or not a decimal number.
var ErrMalformedInput = errors.New("missing or non-numeric coordinate")

// Submission carries the raw form fields of one attendance submission.
// Everything except the coordinates is treated as an opaque string; comments
// may be empty.
type Submission struct {
	Fingerprint string
	Latitude    string
	Longitude   string
	Name        string
	RollNo      string
	Comments    string
}

// Result is the outcome of validating one submission. Record is set only for
// DecisionAccepted; DistanceMeters and RadiusMeters are set only for
// DecisionDeniedOutOfRange.
type Result struct {
	Decision       Decision
	Record         *models.Record
	DistanceMeters float64
	RadiusMeters   float64
}

// Validator decides accept or deny for incoming submissions
type Validator struct {
	config *config.Config
	store  *store.DailyStore
	now    func() time.Time
}

// NewValidator creates a new submission validator
func NewValidator(cfg *config.Config, st *store.DailyStore) *Validator {
	return &Validator{
		config: cfg,
		store:  st,
		now:    time.Now,
	}
}

// Evaluate runs the ordered checks for one submission against the named daily
// log: coordinate parsing, geofence, duplicate fingerprint. It performs reads
// only; the caller appends the returned record on DecisionAccepted.
func (v *Validator) Evaluate(logName string, sub Submission) (*Result, error) {
	lat, err := parseCoordinate(sub.Latitude)
	if err != nil {
		return nil, fmt.Errorf("latitude %q: %w", sub.Latitude, ErrMalformedInput)
	}
	lon, err := parseCoordinate(sub.Longitude)
	if err != nil {
		return nil, fmt.Errorf("longitude %q: %w", sub.Longitude, ErrMalformedInput)
	}

	if v.config.Geofence.Enabled {
		distance := geo.Distance(
			*v.config.Geofence.CourseLat,
			*v.config.Geofence.CourseLon,
			lat,
			lon,
		)
		if distance > v.config.Geofence.AllowedRadiusMeters {
			return &Result{
				Decision:       DecisionDeniedOutOfRange,
				DistanceMeters: distance,
				RadiusMeters:   v.config.Geofence.AllowedRadiusMeters,
			}, nil
		}
	}

	duplicate, err := v.store.ContainsFingerprint(logName, sub.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to check fingerprint: %w", err)
	}
	if duplicate {
		return &Result{Decision: DecisionDeniedDuplicate}, nil
	}

	return &Result{
		Decision: DecisionAccepted,
		Record: &models.Record{
			Timestamp:   v.now(),
			Name:        sub.Name,
			RollNo:      sub.RollNo,
			Comments:    sub.Comments,
			Latitude:    lat,
			Longitude:   lon,
			Fingerprint: sub.Fingerprint,
		},
	}, nil
}

func parseCoordinate(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
