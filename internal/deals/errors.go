package deals

import "errors"

var (
	ErrNotFound          = errors.New("deal not found")
	ErrInvalidStage      = errors.New("unknown stage")
	ErrInvalidTransition = errors.New("stage transition not allowed")
	ErrCompanyRequired   = errors.New("company is required")
)
