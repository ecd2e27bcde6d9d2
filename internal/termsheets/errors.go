package termsheets

import "errors"

var (
	ErrUnknownTemplate = errors.New("unknown term-sheet template")
	ErrNotFound        = errors.New("term sheet not found")
	ErrMissingFields   = errors.New("companyName, investorName and investmentUsd are required")
)
