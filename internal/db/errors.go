package db

import "errors"

// ErrSpellNotFound is returned when a character does not know the spell being updated.
var ErrSpellNotFound = errors.New("spell not found")
