//go:build !linux && !freebsd && !openbsd && !netbsd && !dragonfly

package capture

import (
	"fmt"
	"image"
)

func platformScreenshot(interactive bool) (*image.RGBA, error) {
	return nil, fmt.Errorf("screen capture is not supported on this platform")
}
