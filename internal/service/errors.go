package service

import "errors"

var (
	ErrEmptyText             = errors.New("text is required")
	ErrTextTooLong           = errors.New("text is too long")
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)
