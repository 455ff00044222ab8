//go:build !test

package utils

import (
	"image"
	"strings"

	"github.com/sqweek/dialog"
)

// PickROM asks the user for a ROM file, starting in startingDir.
func PickROM(startingDir string) (string, error) {
	return dialog.File().
		SetStartDir(startingDir).
		Filter("Game Boy ROM", "gb", "gbc", "zip", "7z", "gz").
		Title("Open ROM").
		Load()
}

// SaveImage asks the user where to save img as a PNG.
func SaveImage(img image.Image) error {
	// ask user where to save the image
	filename, err := dialog.File().Filter("PNG Image", "png").Title("Save Image").Save()
	if err != nil {
		return err
	}

	// does file have a .png extension?
	if !strings.HasSuffix(strings.ToLower(filename), ".png") {
		filename += ".png"
	}
	return SavePNG(filename, img)
}
