package commands

import "visitdesk/internal/pkg/errs"

// Sentinel errors the handler layer maps to HTTP statuses. Callers branch
// with errors.Is; repository details stay wrapped underneath.
var (
	ErrNotFound            = errs.New("resource not found")
	ErrNoResourceAvailable = errs.New("no technician available")
	ErrNoSlotFound         = errs.New("no bookable slot in horizon")
	ErrHoldExpired         = errs.New("hold has expired")
	ErrSlotTaken           = errs.New("slot already taken")
	ErrVersionConflict     = errs.New("reservation changed concurrently")
	ErrOriginalsChanged    = errs.New("route changed since preview")
	ErrPreviewExpired      = errs.New("preview has expired")
	ErrPreviewConsumed     = errs.New("preview already applied")
	ErrHashMismatch        = errs.New("proposal hash mismatch")
	ErrForbidden           = errs.New("actor not allowed to perform this change")
	ErrNoAppointments      = errs.New("no appointments on route date")
	ErrNoMovable           = errs.New("no movable appointments on route date")
	ErrInvalidInput        = errs.New("invalid input")
	ErrInvalidCredentials  = errs.New("invalid email or password")
	ErrUserInactive        = errs.New("user account is inactive")
)
