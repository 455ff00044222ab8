//go:build test

package utils

import (
	"errors"
	"image"
)

// ErrNoDesktop is returned by the clipboard and dialog helpers when
// built with the test tag, which leaves out their cgo dependencies.
var ErrNoDesktop = errors.New("utils: no desktop integration in this build")

// CopyImage places img on the system clipboard.
func CopyImage(image.Image) error {
	return ErrNoDesktop
}

// PickROM asks the user for a ROM file, starting in startingDir.
func PickROM(string) (string, error) {
	return "", ErrNoDesktop
}

// SaveImage asks the user where to save img as a PNG.
func SaveImage(image.Image) error {
	return ErrNoDesktop
}
