package viz

import (
	"math"
	"sort"

	"github.com/san-kum/orrery/internal/orbit"
)

const (
	defaultTilt     = -1.0
	defaultDistance = 4.0
	nearPlane       = 0.1
	minZoom         = 0.1
	maxZoom         = 50
)

// Camera projects view coordinates, roughly the unit cube, onto the canvas.
// Distance sets the perspective strength; zero means orthographic.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
	Distance         float64
}

// NewCamera looks down on the reference plane from an oblique angle.
func NewCamera() *Camera {
	return &Camera{RotX: defaultTilt, Zoom: 1, Distance: defaultDistance}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(maxZoom, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(minZoom, c.Zoom/1.2) }

func (c *Camera) Reset() {
	*c = *NewCamera()
}

// RotatePoint applies the X, Y then Z rotations.
func (c *Camera) RotatePoint(p orbit.Vec3) orbit.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to pixel coordinates on an sw x sh canvas. It returns the
// pixel, the depth after rotation and whether the pixel lies on the canvas.
func (c *Camera) Project(p orbit.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	scale := 1.0
	if c.Distance > 0 {
		if rot.Z >= c.Distance-nearPlane {
			return 0, 0, 0, false
		}
		scale = c.Distance / (c.Distance - rot.Z)
	}
	half := float64(min(sw, sh)) / 2 * 0.9
	sx := int(math.Round(rot.X*scale*half)) + sw/2
	sy := int(math.Round(-rot.Y*scale*half)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End orbit.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe               { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e orbit.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p orbit.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                  { w.Edges = w.Edges[:0] }

// AddPolyline joins consecutive points.
func (w *Wireframe) AddPolyline(points []orbit.Vec3) {
	for i := 1; i < len(points); i++ {
		w.AddEdge(points[i-1], points[i])
	}
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front. Edges with an endpoint off the
// canvas are dropped so long segments cannot sweep across the view.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 && v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
