//go:build !test

package utils

import (
	"fmt"
	"image"

	"golang.design/x/clipboard"
)

// CopyImage places img on the system clipboard.
func CopyImage(img image.Image) error {
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("initializing clipboard: %w", err)
	}

	data, err := EncodePNG(img)
	if err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtImage, data)
	return nil
}
