package apperr

import "errors"

// ErrInvalid is returned when the input fails domain validation
// (malformed coordinates, missing required fields, bad enum values).
var ErrInvalid = errors.New("invalid input")

// ErrNotFound indicates that the referenced order, assignment or partner does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition indicates that the requested transition is not legal
// from the assignment's current status. The loser of a CAS race observes this.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrWrongPartner indicates that the acting partner is not the assignment's partner.
var ErrWrongPartner = errors.New("wrong partner")

// ErrNoPartnersAvailable indicates that dispatch found zero eligible candidates.
var ErrNoPartnersAvailable = errors.New("no partners available")

// ErrAlreadyAssigned indicates that the order already has a non-terminal assignment.
var ErrAlreadyAssigned = errors.New("order already assigned")
