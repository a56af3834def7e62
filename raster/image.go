package raster

// DrawImage blits RGBA8888 source pixels into the destination rectangle
// (dx, dy, dw, dh) with nearest-neighbour scaling and source-over blending.
// Only the part of the rectangle inside the buffer is visited, so oversized
// destination rectangles cost no more than the buffer itself.
func DrawImage(pix []byte, srcW, srcH int, dx, dy, dw, dh int, opacity float32, buf []byte, width, height, stride int) {
	if srcW <= 0 || srcH <= 0 || dw <= 0 || dh <= 0 {
		return
	}
	y0 := max(dy, 0)
	y1 := min(dy+dh, height)
	x0 := max(dx, 0)
	x1 := min(dx+dw, width)
	for ty := y0; ty < y1; ty++ {
		sy := (ty - dy) * srcH / dh
		for tx := x0; tx < x1; tx++ {
			sx := (tx - dx) * srcW / dw
			so := (sy*srcW + sx) * 4
			if so+3 >= len(pix) {
				continue
			}
			c := Color{R: pix[so], G: pix[so+1], B: pix[so+2], A: pix[so+3]}
			blendPixel(buf, stride, tx, ty, c.WithOpacity(opacity))
		}
	}
}
