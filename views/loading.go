package views

import (
	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/embedview/widgets"
)

const loadBarWidth = 24

// drawLoadingOverlay renders an opaque layer with a spinner and a bouncing
// bar in the middle. It covers whatever is drawn beneath it.
func drawLoadingOverlay(ctx vxfw.DrawContext, owner vxfw.Widget, spinner *widgets.Spinner, frame int) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	widgets.Fill(&s, vaxis.Style{})

	mid := ctx.Max.Height / 2
	rowCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})

	spinSurf, err := spinner.Draw(rowCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, int(mid), spinSurf)

	if mid+2 < ctx.Max.Height && int(ctx.Max.Width) >= loadBarWidth+2 {
		bar := &widgets.LoadBar{Frame: frame, BarWidth: loadBarWidth}
		barSurf, err := bar.Draw(rowCtx.WithMax(vxfw.Size{Width: loadBarWidth + 2, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild((int(ctx.Max.Width)-loadBarWidth-2)/2, int(mid)+2, barSurf)
	}

	return s, nil
}
