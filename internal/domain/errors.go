package domain

import "errors"

// Store-level sentinels shared by every TransferStore and directory implementation.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrStaleRecord    = errors.New("record status changed since it was read")
)
