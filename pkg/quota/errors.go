package quota

import "errors"

var (
	ErrStorageUnavailable = errors.New("quota: storage unavailable")
	ErrInvalidRecord      = errors.New("quota: invalid usage record")
)
