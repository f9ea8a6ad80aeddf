package memory

import "errors"

var ErrDuplicate = errors.New("already exists")
