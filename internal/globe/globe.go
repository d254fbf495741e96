// Package globe holds the sphere math shared by rendering, picking and label placement.
package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Radii of the scene shells, in world units.
const (
	Radius        = 100.0 // globe body
	SurfaceRadius = 101.0 // country outlines sit just above the body
	LabelRadius   = 102.0 // label anchors
)

// Center is the fixed world position of the globe.
var Center = mgl64.Vec3{0, 0, 0}

// LatLonToVec3 converts geographic coordinates (degrees) to a point on a sphere of radius r.
func LatLonToVec3(lat, lon, r float64) mgl64.Vec3 {
	phi := (90 - lat) * math.Pi / 180
	theta := (lon + 180) * math.Pi / 180
	return mgl64.Vec3{
		-(r * math.Sin(phi) * math.Cos(theta)),
		r * math.Cos(phi),
		r * math.Sin(phi) * math.Sin(theta),
	}
}

// Vec3ToLatLon is the inverse of LatLonToVec3. The radius is ignored.
func Vec3ToLatLon(v mgl64.Vec3) (lat, lon float64) {
	r := v.Len()
	if r == 0 {
		return 0, 0
	}
	phi := math.Acos(clamp(v.Y()/r, -1, 1))
	theta := math.Atan2(v.Z(), -v.X())
	lat = 90 - phi*180/math.Pi
	lon = theta*180/math.Pi - 180
	if lon < -180 {
		lon += 360
	}
	return lat, lon
}

// FacesCamera reports whether p lies on the hemisphere turned towards the camera.
func FacesCamera(p, center, camera mgl64.Vec3) bool {
	toPoint := p.Sub(center)
	toCamera := camera.Sub(center)
	if toPoint.Len() == 0 || toCamera.Len() == 0 {
		return false
	}
	return toPoint.Normalize().Dot(toCamera.Normalize()) > 0
}

// Horizon samples n points of the silhouette circle of a sphere as seen from camera.
// It returns nil when the camera is inside the sphere.
func Horizon(center mgl64.Vec3, radius float64, camera mgl64.Vec3, n int) []mgl64.Vec3 {
	d := camera.Sub(center)
	dist := d.Len()
	if dist <= radius || n < 3 {
		return nil
	}
	axis := d.Normalize()
	ringCenter := center.Add(axis.Mul(radius * radius / dist))
	ringRadius := radius * math.Sqrt(1-(radius*radius)/(dist*dist))

	ref := mgl64.Vec3{0, 1, 0}
	if math.Abs(axis.Dot(ref)) > 0.99 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	u := axis.Cross(ref).Normalize()
	v := axis.Cross(u)

	pts := make([]mgl64.Vec3, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		off := u.Mul(math.Cos(a) * ringRadius).Add(v.Mul(math.Sin(a) * ringRadius))
		pts = append(pts, ringCenter.Add(off))
	}
	return pts
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
