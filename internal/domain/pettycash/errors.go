package pettycash

import "errors"

var (
	ErrEntryNotFound       = errors.New("petty cash entry not found")
	ErrInsufficientBalance = errors.New("expense exceeds the site's petty cash balance")
)
