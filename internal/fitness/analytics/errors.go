package analytics

import "errors"

var (
	// ErrInvalidSet is returned for sets with negative weight or less than one rep.
	ErrInvalidSet = errors.New("invalid set")
	// ErrInvalidGoalConfig signals a goal that cannot be evaluated, e.g. target equal to baseline.
	ErrInvalidGoalConfig = errors.New("invalid goal configuration")
	ErrUnknownGoalType   = errors.New("unknown goal type")
)
