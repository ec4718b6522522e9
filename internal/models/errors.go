package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrNoLine         = errors.New("no market line for game")
	ErrLookaheadRead  = errors.New("rating read requires information from a later game")
	ErrOutOfOrderFeed = errors.New("game feed is not in ascending timestamp order")
	ErrDuplicateGame  = errors.New("duplicate game identifier in feed")
)
