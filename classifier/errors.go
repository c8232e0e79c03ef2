package classifier

import (
	"errors"

	"github.com/RyanBlaney/sonido-age/algorithms/stats"
)

var (
	// ErrInvalidParameter marks a query that cannot be classified with the
	// given options: k out of range, no surviving dimensions, wrong length.
	ErrInvalidParameter = errors.New("invalid classification parameter")

	// ErrDiscretization is returned when a feature value cannot be binned
	ErrDiscretization = stats.ErrDiscretization
)
