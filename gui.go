package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"
	"unicode"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/okv/c8/vip"
)

// texScale is the factor by which the display is enlarged before the
// window scales it to fit; scaling the 64x32 image up with a nearest
// neighbour kernel first keeps the pixels crisp.
const texScale = 8

// Display palette.
var (
	pxOn  = color.RGBA{0xcd, 0xe1, 0x89, 0xff}
	pxOff = color.RGBA{0x1a, 0x1c, 0x2c, 0xff}
)

// keymap maps the left-hand block of a QWERTY keyboard onto the 4x4
// hex keypad.
var keymap = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xc,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xd,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xe,
	'z': 0xa, 'x': 0x0, 'c': 0xb, 'v': 0xf,
}

func newGUI(r *vip.Runner) *gui {
	return &gui{r: r}
}

type gui struct {
	r *vip.Runner

	size image.Point
	buf  screen.Buffer
	tex  screen.Texture
}

// Run opens the window and drives it until exit is closed or the
// window is dismissed. It must be called from the main goroutine.
func (g *gui) Run(exit <-chan bool) error {
	driver.Main(func(s screen.Screen) {
		g.size = image.Point{vip.Width * texScale, vip.Height * texScale}
		w, err := s.NewWindow(&screen.NewWindowOptions{
			Title:  "c8",
			Width:  g.size.X,
			Height: g.size.Y,
		})
		if err != nil {
			log.Fatal(err)
		}
		defer w.Release()

		type update struct{}
		go func() {
			t := time.NewTicker(time.Second / 60)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-exit:
					return
				}
			}
		}()

		defer g.release()

		var sz size.Event
		for {
			e := w.NextEvent()

			switch e := e.(type) {
			case update:
			case paint.Event:
			case key.Event:
			default:
				format := "got %#v\n"
				if _, ok := e.(fmt.Stringer); ok {
					format = "got %v\n"
				}
				log.Printf(format, e)
			}

			select {
			case <-exit:
				return
			default:
			}

			switch e := e.(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				k, ok := keymap[unicode.ToLower(e.Rune)]
				if !ok {
					break
				}
				switch e.Direction {
				case key.DirPress:
					g.r.Press(k)
				case key.DirRelease:
					g.r.Release(k)
				}

			case update:
				select {
				case sys := <-g.r.Update:
					if err := g.update(s, sys); err != nil {
						log.Fatalf("update: %v", err)
					}
					g.r.UpdateDone <- true

					g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
					w.Scale(sz.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
					w.Publish()
				default:
					// The machine has nothing new to show.
				}

			case error:
				log.Print(e)
			}
		}
	})
	return nil
}

// update copies the display out of sys. It must return before the
// machine may run again, so it does no more than the scaled pixel
// copy.
func (g *gui) update(s screen.Screen, sys *vip.System) (err error) {
	if g.buf == nil {
		g.buf, err = s.NewBuffer(g.size)
		if err != nil {
			return
		}
		g.tex, err = s.NewTexture(g.size)
		if err != nil {
			return
		}
	}
	m := sys.Screen().RGBA(pxOn, pxOff)
	xdraw.NearestNeighbor.Scale(g.buf.RGBA(), g.buf.RGBA().Bounds(), m, m.Bounds(), xdraw.Src, nil)
	return
}

func (g *gui) release() {
	if g.tex != nil {
		g.tex.Release()
	}
	if g.buf != nil {
		g.buf.Release()
	}
}
