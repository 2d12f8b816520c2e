package overlay

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	windowMargin = 24
	buttonWidth  = 140
	buttonHeight = 36
	minWidth     = 360
)

var (
	backgroundColor  = color.RGBA{R: 0x18, G: 0x0c, B: 0x0c, A: 0xff}
	buttonColor      = color.RGBA{R: 0xb0, G: 0x30, B: 0x20, A: 0xff}
	buttonHoverColor = color.RGBA{R: 0xd0, G: 0x48, B: 0x30, A: 0xff}
	textColor        = color.RGBA{R: 0xf0, G: 0xe8, B: 0xe8, A: 0xff}
)

// window is the ebiten game backing the warning overlay. RunGame may only be
// called once per process, so one window lives for the whole daemon: it parks
// minimized between warnings and is restored for each new one.
type window struct {
	ctrl *Controller

	img    *ebiten.Image
	width  int
	height int
	button image.Rectangle

	shown     bool
	minimized bool
}

func newWindow(ctrl *Controller, img image.Image) *window {
	w := &window{ctrl: ctrl, width: minWidth}

	imgH := 0
	if img != nil {
		w.img = ebiten.NewImageFromImage(img)
		b := img.Bounds()
		if b.Dx()+2*windowMargin > w.width {
			w.width = b.Dx() + 2*windowMargin
		}
		imgH = b.Dy() + windowMargin
	} else {
		// Text-only fallback keeps room for the message line.
		imgH = 40
	}

	w.height = windowMargin + imgH + buttonHeight + windowMargin
	btnX := (w.width - buttonWidth) / 2
	btnY := w.height - windowMargin - buttonHeight
	w.button = image.Rect(btnX, btnY, btnX+buttonWidth, btnY+buttonHeight)

	return w
}

// runEbitenWindow configures a borderless always-on-top window centered on
// the primary monitor and runs its event loop for the life of the process.
// The window starts parked. A non-nil error means the loop could not be
// hosted at all.
func (c *Controller) runEbitenWindow(w *window) error {
	ebiten.SetWindowTitle("Low Battery")
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetWindowSize(w.width, w.height)
	w.center()

	return ebiten.RunGame(w)
}

func (w *window) center() {
	if m := ebiten.Monitor(); m != nil {
		mw, mh := m.Size()
		if mw > 0 && mh > 0 {
			ebiten.SetWindowPosition((mw-w.width)/2, (mh-w.height)/2)
		}
	}
}

func (w *window) Update() error {
	if w.ctrl.shuttingDown() {
		if w.shown {
			w.ctrl.reset()
		}
		return ebiten.Termination
	}

	if !w.shown {
		// MinimizeWindow only takes effect once the loop runs, so the
		// initial park happens here rather than before RunGame.
		if !w.minimized {
			ebiten.MinimizeWindow()
			w.minimized = true
		}
		if w.ctrl.takeRequest() {
			w.present()
		}
		return nil
	}

	if w.ctrl.closeRequested() {
		w.park()
		return nil
	}

	// Any window-close event counts as a user dismissal.
	if ebiten.IsWindowBeingClosed() {
		w.park()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		w.park()
		return nil
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if image.Pt(x, y).In(w.button) {
			w.park()
		}
	}

	return nil
}

// present restores the parked window for a new warning.
func (w *window) present() {
	w.shown = true
	w.minimized = false
	w.center()
	ebiten.RestoreWindow()
}

// park minimizes the window again and finalizes the dismissal.
func (w *window) park() {
	w.shown = false
	w.minimized = true
	ebiten.MinimizeWindow()
	w.ctrl.dismissed()
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	if !w.shown {
		return
	}

	if w.img != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64((w.width-w.img.Bounds().Dx())/2), windowMargin)
		screen.DrawImage(w.img, op)
	} else {
		w.drawCentered(screen, "Battery is low. Connect your charger.", windowMargin+20)
	}

	btn := buttonColor
	if cx, cy := ebiten.CursorPosition(); image.Pt(cx, cy).In(w.button) {
		btn = buttonHoverColor
	}
	vector.DrawFilledRect(screen,
		float32(w.button.Min.X), float32(w.button.Min.Y),
		float32(w.button.Dx()), float32(w.button.Dy()),
		btn, false)

	w.drawCentered(screen, "Dismiss", w.button.Min.Y+w.button.Dy()/2+5)
}

func (w *window) drawCentered(screen *ebiten.Image, line string, baselineY int) {
	face := basicfont.Face7x13
	x := (w.width - font.MeasureString(face, line).Ceil()) / 2
	text.Draw(screen, line, face, x, baselineY, textColor)
}

func (w *window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}
