package export

import (
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/inamate/stage/internal/config"
	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/engine"
	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/scene"
)

// Render rasterizes a document at stage size. A document without a saved
// frame is centred on its content. A positive width scales the result down
// to a thumbnail with the same aspect ratio.
func Render(doc *document.Document, cfg config.Editor, width int) (image.Image, error) {
	eng := engine.NewEngine(engine.WithConfig(cfg))
	if err := eng.LoadDocument(doc); err != nil {
		return nil, fmt.Errorf("render scene: %w", err)
	}
	if doc.Frame == nil {
		eng.SetFrame(fitFrame(eng.Store(), cfg.StageWidth, cfg.StageHeight))
	}
	frame := eng.Store().Frame()
	full := Rasterize(eng.DrawList(), int(frame.Width), int(frame.Height))

	b := full.Bounds()
	if width <= 0 || width >= b.Dx() || b.Dx() == 0 {
		return full, nil
	}
	height := max(1, b.Dy()*width/b.Dx())
	thumb := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(thumb, thumb.Bounds(), full, b, xdraw.Over, nil)
	return thumb, nil
}

// RenderPNG writes the rendered document as PNG.
func RenderPNG(w io.Writer, doc *document.Document, cfg config.Editor, width int) error {
	img, err := Render(doc, cfg, width)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// fitFrame centres the stage on the scene and zooms out until it fits.
func fitFrame(store *scene.Store, width, height float64) geometry.StageFrame {
	frame := geometry.StageFrame{Width: width, Height: height, Scale: 1}
	var bounds geometry.Rect
	for i, el := range store.Elements() {
		if i == 0 {
			bounds = el.Bounds()
			continue
		}
		bounds = bounds.Union(el.Bounds())
	}
	if bounds.IsEmpty() {
		frame.WorldCoord = geometry.Pt(width/2, height/2)
		return frame
	}
	frame.WorldCoord = bounds.Center()
	if bounds.Width > width || bounds.Height > height {
		frame.Scale = min(width/bounds.Width, height/bounds.Height)
	}
	return frame
}
