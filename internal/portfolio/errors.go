package portfolio

import "errors"

var (
	ErrNotFound     = errors.New("portfolio company not found")
	ErrNameRequired = errors.New("name is required")
)
