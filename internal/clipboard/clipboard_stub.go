//go:build !((linux || freebsd || openbsd || netbsd || dragonfly) && cgo)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("clipboard is not supported on this platform")

// WriteImage is unavailable on this platform.
func WriteImage(_ image.Image) error {
	return errUnsupported
}

// ReadImage is unavailable on this platform.
func ReadImage() (image.Image, error) {
	return nil, errUnsupported
}

// WriteText is unavailable on this platform.
func WriteText(_ string) error {
	return errUnsupported
}
