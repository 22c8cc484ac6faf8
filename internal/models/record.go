package models

import "time"

// Record is one accepted attendance submission. Records are immutable once
// written to the daily log; there is no update or delete path.
type Record struct {
	Timestamp   time.Time
	Name        string
	RollNo      string
	Comments    string
	Latitude    float64
	Longitude   float64
	Fingerprint string
}
