package recorder

import "errors"

// ErrOpenSampleFile means the sample file could not be opened for writing,
// a fatal resource failure (§7.3).
var ErrOpenSampleFile = errors.New("recorder: cannot open sample file")

// ErrWriteSampleFile means a write to the sample file failed, also fatal.
var ErrWriteSampleFile = errors.New("recorder: cannot write sample file")
