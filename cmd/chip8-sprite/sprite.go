package main

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/draw"
)

// Sprite dimensions. A sprite is one byte wide; DRW accepts up to 15 rows.
const (
	SpriteWidth     = 8
	MaxSpriteHeight = 15
)

// Sprites slices img into sprites of SpriteWidth by height pixels, left to
// right and top to bottom. Partial sprites at the right and bottom edges
// are dropped. A pixel is on if its brightness is at least threshold.
func Sprites(img image.Image, height int, threshold uint8) [][]byte {
	r := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(gray, gray.Bounds(), img, r.Min, draw.Src)

	cols := r.Dx() / SpriteWidth
	rows := r.Dy() / height
	sprites := make([][]byte, 0, cols*rows)

	for sy := 0; sy < rows; sy++ {
		for sx := 0; sx < cols; sx++ {
			sprite := make([]byte, height)

			for y := range sprite {
				for x := 0; x < SpriteWidth; x++ {
					if gray.GrayAt(sx*SpriteWidth+x, sy*height+y).Y >= threshold {
						sprite[y] |= 0x80 >> x
					}
				}
			}

			sprites = append(sprites, sprite)
		}
	}

	return sprites
}

// writeListing writes sprites as an assembly listing with one binary
// byte per row.
func writeListing(w io.Writer, sprites [][]byte) error {
	if _, err := fmt.Fprintf(w, "; %d sprites\n", len(sprites)); err != nil {
		return err
	}

	for i, sprite := range sprites {
		if _, err := fmt.Fprintf(w, "\nsprite%d:\n", i); err != nil {
			return err
		}

		for _, row := range sprite {
			if _, err := fmt.Fprintf(w, "  DB %%%08b\n", row); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeRaw writes sprites back to back, ready to be appended to a rom.
func writeRaw(w io.Writer, sprites [][]byte) error {
	for _, sprite := range sprites {
		if _, err := w.Write(sprite); err != nil {
			return err
		}
	}
	return nil
}
