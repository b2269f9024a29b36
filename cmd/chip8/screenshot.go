package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"github.com/hexaflex/chip8/devices/fffe/cpu"
)

// writeScreenshot writes fb to a new PNG file in dir, scaled up by the
// given factor. Returns the name of the file.
func writeScreenshot(dir string, fb *cpu.Framebuffer, scale, background, foreground int) (string, error) {
	if scale < 1 {
		scale = 1
	}

	palette := color.Palette{rgb(background), rgb(foreground)}
	src := image.NewPaletted(image.Rect(0, 0, cpu.DisplayWidth, cpu.DisplayHeight), palette)

	for y := 0; y < cpu.DisplayHeight; y++ {
		for x := 0; x < cpu.DisplayWidth; x++ {
			if fb.Pixel(x, y) {
				src.SetColorIndex(x, y, 1)
			}
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, cpu.DisplayWidth*scale, cpu.DisplayHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	name := fmt.Sprintf("%s-%s.png", AppName, time.Now().Format("20060102-150405.000"))
	file := filepath.Join(dir, name)

	fd, err := os.Create(file)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create screenshot")
	}

	if err := png.Encode(fd, dst); err != nil {
		fd.Close()
		return "", errors.Wrapf(err, "failed to encode screenshot")
	}

	return file, errors.Wrapf(fd.Close(), "failed to write screenshot")
}

func rgb(n int) color.RGBA {
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}
}
