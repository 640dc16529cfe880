package mealplan

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingCoverage = errors.New("missing menu coverage")
	ErrUnknownPolicy   = errors.New("unknown adjustment policy")
)
