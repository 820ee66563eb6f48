package models

import "errors"

// ErrNoRecords is returned when a JSON object carries no record array.
var ErrNoRecords = errors.New("response has no data or records array")
