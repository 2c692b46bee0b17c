package dispatch

import "errors"

// ErrInvalidCombineMode is returned when a Priority algorithm is configured
// with a combine mode other than "sum" or "mult". The caller must surface
// this as a client error and must not mutate any shared state.
var ErrInvalidCombineMode = errors.New("dispatch: invalid priority combine mode")
