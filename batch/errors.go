package batch

import "errors"

// ErrNilAtlas is returned by NewBuilder when no atlas is given.
var ErrNilAtlas = errors.New("batch: nil atlas")
