package viz

import "math"

// Camera projects 3D world points onto the 2D canvas. Rotation is stored as
// three accumulated axis angles; zoom is a plain scale factor.
type Camera struct {
	rotX, rotY, rotZ float64
	zoom             float64
	distance         float64
}

func NewCamera() *Camera {
	// A slight initial tilt so depth is visible immediately.
	return &Camera{rotX: 0.4, rotY: 0.6, zoom: 1.0, distance: 3.0}
}

func (c *Camera) RotateX(a float64) { c.rotX += a }
func (c *Camera) RotateY(a float64) { c.rotY += a }
func (c *Camera) RotateZ(a float64) { c.rotZ += a }

func (c *Camera) ZoomIn()  { c.zoom = math.Min(8, c.zoom*1.2) }
func (c *Camera) ZoomOut() { c.zoom = math.Max(0.2, c.zoom/1.2) }

// Project maps a point with coordinates normalized to [-1, 1] onto
// sub-pixel canvas coordinates. ok is false when the point lands outside
// the canvas.
func (c *Camera) Project(x, y, z float64, pw, ph int) (sx, sy int, depth float64, ok bool) {
	x, y, z = c.rotate(x, y, z)
	x, y, z = x*c.zoom, y*c.zoom, z*c.zoom

	// Simple perspective: points nearer the viewer spread wider.
	persp := c.distance / (c.distance - z)
	if persp <= 0 {
		return 0, 0, 0, false
	}

	half := float64(min(pw, ph)) / 2
	sx = pw/2 + int(x*persp*half*0.9)
	sy = ph/2 - int(y*persp*half*0.9)
	return sx, sy, z, sx >= 0 && sx < pw && sy >= 0 && sy < ph
}

func (c *Camera) rotate(x, y, z float64) (float64, float64, float64) {
	cx, sx := math.Cos(c.rotX), math.Sin(c.rotX)
	y, z = y*cx-z*sx, y*sx+z*cx
	cy, sy := math.Cos(c.rotY), math.Sin(c.rotY)
	x, z = x*cy+z*sy, -x*sy+z*cy
	cz, sz := math.Cos(c.rotZ), math.Sin(c.rotZ)
	x, y = x*cz-y*sz, x*sz+y*cz
	return x, y, z
}
