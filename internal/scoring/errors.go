package scoring

import "errors"

// ErrNoScore is returned when a model reply carries no numeric score.
var ErrNoScore = errors.New("no score in model reply")
