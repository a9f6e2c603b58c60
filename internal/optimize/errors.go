package optimize

import "errors"

var (
	// ErrInvalidConfig marks configuration bounds the search refuses to
	// run with. Caller error; never retried.
	ErrInvalidConfig = errors.New("imgfit: invalid configuration")

	// ErrEncodeProbe wraps an encoder failure during a probe. The search
	// aborts immediately; no partial report escapes.
	ErrEncodeProbe = errors.New("imgfit: encode probe failed")

	// ErrDecode wraps a codec failure while reading the source image.
	ErrDecode = errors.New("imgfit: decode failed")
)
