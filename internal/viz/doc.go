// Package viz draws simulation frames on the terminal.
//
// [Canvas] is a Braille pixel grid: every character cell packs 2x4
// sub-pixels, which gives circles and velocity vectors a usable resolution
// in an ordinary terminal. It implements view.Sink, so a view.Renderer can
// draw straight onto it:
//
//	canvas := viz.NewCanvas(80, 24)
//	vp := view.NewViewport(canvas.PixelSize())
//	renderer.Draw(world.Snapshot(), vp, canvas)
//	fmt.Print(canvas.String())
package viz
