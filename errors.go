package sentsplit

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrInputNotFound indicates the input file does not exist.
	ErrInputNotFound = errors.New("sentsplit: input file not found")

	// ErrInputUnreadable indicates the input file exists but could not be read.
	ErrInputUnreadable = errors.New("sentsplit: input file unreadable")
)
