// Package warnimg provides the image shown inside the warning overlay.
package warnimg

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderWidth  = 360
	placeholderHeight = 140
)

// Load reads the warning image from path. The file must be a PNG.
func Load(path string) (image.Image, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to open image %s", path)
	}
	defer fp.Close()

	img, err := png.Decode(fp)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to decode image %s", path)
	}

	return img, nil
}

// Placeholder synthesizes a warning panel for hosts where no image file is
// shipped next to the executable.
func Placeholder() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))

	bg := color.RGBA{R: 0x20, G: 0x10, B: 0x10, A: 0xff}
	border := color.RGBA{R: 0xe0, G: 0x50, B: 0x30, A: 0xff}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for x := 0; x < placeholderWidth; x++ {
		for _, y := range []int{0, 1, placeholderHeight - 2, placeholderHeight - 1} {
			img.SetRGBA(x, y, border)
		}
	}
	for y := 0; y < placeholderHeight; y++ {
		for _, x := range []int{0, 1, placeholderWidth - 2, placeholderWidth - 1} {
			img.SetRGBA(x, y, border)
		}
	}

	drawCenteredLine(img, "LOW BATTERY", placeholderHeight/2-8, border)
	drawCenteredLine(img, "Connect your charger", placeholderHeight/2+16, color.RGBA{R: 0xd0, G: 0xc0, B: 0xc0, A: 0xff})

	return img
}

func drawCenteredLine(img *image.RGBA, line string, baselineY int, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, line).Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.P(
			(img.Bounds().Dx()-width)/2,
			baselineY,
		),
	}
	d.DrawString(line)
}

// LoadOrPlaceholder returns the configured image when it exists, otherwise a
// synthesized placeholder. The second return value reports whether the image
// came from disk.
func LoadOrPlaceholder(path string) (image.Image, bool, error) {
	img, err := Load(path)
	if err == nil {
		return img, true, nil
	}
	if !os.IsNotExist(pkgerrors.Cause(err)) {
		// Present but unreadable or malformed; still fall back, but let the
		// caller log what was wrong with the file.
		return Placeholder(), false, err
	}
	return Placeholder(), false, nil
}
