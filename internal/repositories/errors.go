package repositories

import "errors"

// Storage-agnostic sentinel errors. Implementations map their native errors
// (mongo.ErrNoDocuments, duplicate key errors) onto these so services never
// depend on a driver.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional update's precondition failed,
	// i.e. the record changed since it was read.
	ErrConflict = errors.New("conditional update conflict")

	// ErrAlreadyProcessed is returned when a status transition targets a
	// transaction that is no longer pending.
	ErrAlreadyProcessed = errors.New("transaction already processed")

	// ErrPendingExists is returned when creating a pending transaction for a
	// user who already has one.
	ErrPendingExists = errors.New("pending transaction already exists")
)
