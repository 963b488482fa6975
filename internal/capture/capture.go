// Package capture supplies the immutable base raster a session starts
// from. On unix it asks the XDG desktop portal for a screenshot and falls
// back to grabbing the X11 root window when no portal answers.
package capture

import (
	"image"
)

// Provider produces a screenshot; interactive requests let the user pick a
// region where the platform supports it.
type Provider func(interactive bool) (*image.RGBA, error)

var provider Provider = platformScreenshot

// Screen captures the whole desktop.
func Screen() (*image.RGBA, error) {
	return provider(false)
}

// Region asks the user to select a region interactively.
func Region() (*image.RGBA, error) {
	return provider(true)
}

// SetProviderForTests replaces the screenshot provider and returns a
// function restoring the previous one.
func SetProviderForTests(p Provider) (restore func()) {
	prev := provider
	provider = p
	return func() { provider = prev }
}
