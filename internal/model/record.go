package model

import (
	"time"

	"github.com/google/uuid"
)

// RecordID uniquely identifies a stored entity
type RecordID string

// NewRecordID returns a fresh random identity
func NewRecordID() RecordID {
	return RecordID(uuid.NewString())
}

// Record holds the lifecycle metadata every stored entity carries
type Record struct {
	ID           RecordID
	DateCreated  time.Time
	DateModified time.Time
	IsActive     bool // false means soft-deleted
}

// NewRecord creates active metadata stamped with the given time
func NewRecord(now time.Time) Record {
	return Record{
		ID:           NewRecordID(),
		DateCreated:  now,
		DateModified: now,
		IsActive:     true,
	}
}

// Meta gives generic code access to the embedded record
func (r *Record) Meta() *Record {
	return r
}

// Touch updates the modification timestamp.
// The timestamp never moves before DateCreated.
func (r *Record) Touch(now time.Time) {
	if now.Before(r.DateCreated) {
		now = r.DateCreated
	}
	r.DateModified = now
}

// Activate marks the entity active again
func (r *Record) Activate(now time.Time) {
	r.IsActive = true
	r.Touch(now)
}

// Deactivate soft-deletes the entity
func (r *Record) Deactivate(now time.Time) {
	r.IsActive = false
	r.Touch(now)
}

// ToggleActive flips the active flag and returns the new value
func (r *Record) ToggleActive(now time.Time) bool {
	if r.IsActive {
		r.Deactivate(now)
	} else {
		r.Activate(now)
	}
	return r.IsActive
}

// StatusLabel returns "Active" or "Inactive"
func (r *Record) StatusLabel() string {
	if r.IsActive {
		return "Active"
	}
	return "Inactive"
}
