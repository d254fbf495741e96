package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	FovY   float64 // vertical field of view, degrees
	Aspect float64 // width / height
	Near   float64
	Far    float64
}

// NewCamera returns the default globe camera: 75° fov, 200 units out on +Z.
func NewCamera(aspect float64) Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return Camera{
		Position: mgl64.Vec3{0, 0, 200},
		Target:   Center,
		Up:       mgl64.Vec3{0, 1, 0},
		FovY:     75,
		Aspect:   aspect,
		Near:     0.1,
		Far:      2000,
	}
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

// Projection returns the perspective projection matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world point to normalized device coordinates.
// ok is false when the point is behind the camera plane.
func Project(viewProj mgl64.Mat4, p mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w == 0 {
		return mgl64.Vec3{}, false
	}
	return mgl64.Vec3{clip.X() / w, clip.Y() / w, clip.Z() / w}, w > 0
}

// NDCToPixel converts NDC x/y into pixel coordinates with the origin at the top-left.
func NDCToPixel(ndc mgl64.Vec3, width, height float64) (x, y float64) {
	return (ndc.X() + 1) * width / 2, (-ndc.Y() + 1) * height / 2
}

// PixelToNDC is the inverse of NDCToPixel for the x/y plane.
func PixelToNDC(x, y, width, height float64) (nx, ny float64) {
	return 2*x/width - 1, 1 - 2*y/height
}

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// Ray builds the world-space ray through pixel (x, y) of a width×height viewport.
func (c Camera) Ray(x, y, width, height float64) Ray {
	nx, ny := PixelToNDC(x, y, width, height)
	inv := c.ViewProjection().Inv()

	near := unproject(inv, mgl64.Vec4{nx, ny, -1, 1})
	far := unproject(inv, mgl64.Vec4{nx, ny, 1, 1})

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(inv mgl64.Mat4, v mgl64.Vec4) mgl64.Vec3 {
	p := inv.Mul4x1(v)
	if p.W() != 0 {
		return mgl64.Vec3{p.X() / p.W(), p.Y() / p.W(), p.Z() / p.W()}
	}
	return p.Vec3()
}

// IntersectSphere returns the nearest intersection of r with the sphere in front of the origin.
func (r Ray) IntersectSphere(center mgl64.Vec3, radius float64) (mgl64.Vec3, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return mgl64.Vec3{}, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return r.Origin.Add(r.Direction.Mul(t)), true
}
