package settings

import "errors"

var (
	// ErrPrecondition indicates inputs the default tables do not cover:
	// an unknown likelihood or an odd LogGamma mix dimension.
	ErrPrecondition = errors.New("settings: precondition violated")
	// ErrLabelContract indicates a label provider returned the wrong
	// number of labels or duplicate labels.
	ErrLabelContract = errors.New("settings: label provider broke its contract")
	// ErrInvalidOption indicates a non-positive entry in a sweep list.
	ErrInvalidOption = errors.New("settings: invalid grid option")
)
