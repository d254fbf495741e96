package globe

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatLonToVec3(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     mgl64.Vec3
	}{
		{"north pole", 90, 0, mgl64.Vec3{0, 100, 0}},
		{"south pole", -90, 0, mgl64.Vec3{0, -100, 0}},
		{"prime meridian on +x", 0, 0, mgl64.Vec3{100, 0, 0}},
		{"lon 90 on -z", 0, 90, mgl64.Vec3{0, 0, -100}},
		{"lon -90 on +z", 0, -90, mgl64.Vec3{0, 0, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatLonToVec3(tt.lat, tt.lon, 100)
			assert.InDelta(t, tt.want.X(), got.X(), 1e-9)
			assert.InDelta(t, tt.want.Y(), got.Y(), 1e-9)
			assert.InDelta(t, tt.want.Z(), got.Z(), 1e-9)
		})
	}
}

func TestVec3ToLatLonRoundTrip(t *testing.T) {
	for _, c := range [][2]float64{{0, 0}, {45, 10}, {-33.9, 151.2}, {60, -120}, {-10, 179}, {10, -179}} {
		v := LatLonToVec3(c[0], c[1], SurfaceRadius)
		lat, lon := Vec3ToLatLon(v)
		assert.InDelta(t, c[0], lat, 1e-9, "lat for %v", c)
		assert.InDelta(t, c[1], lon, 1e-9, "lon for %v", c)
	}
}

func TestFacesCamera(t *testing.T) {
	cam := mgl64.Vec3{0, 0, 200}
	assert.True(t, FacesCamera(mgl64.Vec3{0, 0, 102}, Center, cam))
	assert.False(t, FacesCamera(mgl64.Vec3{0, 0, -102}, Center, cam))
	// exactly on the limb is not facing
	assert.False(t, FacesCamera(mgl64.Vec3{102, 0, 0}, Center, cam))
	assert.False(t, FacesCamera(Center, Center, cam))
}

func TestHorizon(t *testing.T) {
	cam := mgl64.Vec3{0, 0, 200}
	pts := Horizon(Center, Radius, cam, 16)
	require.Len(t, pts, 16)
	for _, p := range pts {
		assert.InDelta(t, Radius, p.Len(), 1e-9)
		// tangent: radius is perpendicular to the line of sight
		assert.InDelta(t, 0, p.Dot(cam.Sub(p)), 1e-6)
	}

	assert.Nil(t, Horizon(Center, Radius, mgl64.Vec3{0, 0, 50}, 16))
}

func TestProjectCenter(t *testing.T) {
	cam := NewCamera(1)
	ndc, ok := Project(cam.ViewProjection(), Center)
	require.True(t, ok)
	assert.InDelta(t, 0, ndc.X(), 1e-9)
	assert.InDelta(t, 0, ndc.Y(), 1e-9)

	x, y := NDCToPixel(ndc, 800, 600)
	assert.InDelta(t, 400, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)

	// points above the center land higher on screen
	up, ok := Project(cam.ViewProjection(), mgl64.Vec3{0, 50, 0})
	require.True(t, ok)
	_, uy := NDCToPixel(up, 800, 600)
	assert.Less(t, uy, 300.0)

	_, ok = Project(cam.ViewProjection(), mgl64.Vec3{0, 0, 400})
	assert.False(t, ok, "behind the camera")
}

func TestPixelToNDCInverse(t *testing.T) {
	nx, ny := PixelToNDC(200, 150, 800, 600)
	x, y := NDCToPixel(mgl64.Vec3{nx, ny, 0}, 800, 600)
	assert.InDelta(t, 200, x, 1e-9)
	assert.InDelta(t, 150, y, 1e-9)
}

func TestRayHitsProjectedPoint(t *testing.T) {
	cam := NewCamera(4.0 / 3.0)
	target := LatLonToVec3(20, -100, SurfaceRadius)
	require.True(t, FacesCamera(target, Center, cam.Position))

	ndc, ok := Project(cam.ViewProjection(), target)
	require.True(t, ok)
	px, py := NDCToPixel(ndc, 800, 600)

	hit, ok := cam.Ray(px, py, 800, 600).IntersectSphere(Center, SurfaceRadius)
	require.True(t, ok)
	assert.InDelta(t, 0, hit.Sub(target).Len(), 1e-6)

	lat, lon := Vec3ToLatLon(hit)
	assert.InDelta(t, 20, lat, 1e-6)
	assert.InDelta(t, -100, lon, 1e-6)
}

func TestRayMissesSphere(t *testing.T) {
	cam := NewCamera(1)
	_, ok := cam.Ray(0, 0, 800, 800).IntersectSphere(Center, Radius)
	assert.False(t, ok)
}

func TestOrbitControlsDefaults(t *testing.T) {
	o := NewOrbitControls()
	p := o.Position()
	assert.InDelta(t, 0, p.X(), 1e-9)
	assert.InDelta(t, 0, p.Y(), 1e-9)
	assert.InDelta(t, 200, p.Z(), 1e-9)
	assert.False(t, o.Moving())
	assert.False(t, o.Update())
}

func TestOrbitControlsZoomClamp(t *testing.T) {
	o := NewOrbitControls()
	o.Zoom(0.1)
	assert.Equal(t, 120.0, o.Distance)
	o.Zoom(100)
	assert.Equal(t, 300.0, o.Distance)
	o.Zoom(-1)
	assert.Equal(t, 300.0, o.Distance)
}

func TestOrbitControlsDamping(t *testing.T) {
	o := NewOrbitControls()
	o.RotateAngles(1, 0)

	require.True(t, o.Update())
	assert.InDelta(t, 0.05, o.Theta, 1e-12)
	require.True(t, o.Update())
	assert.InDelta(t, 0.05+0.05*0.95, o.Theta, 1e-12)

	for i := 0; i < 2000 && o.Moving(); i++ {
		o.Update()
	}
	assert.False(t, o.Moving())
	assert.InDelta(t, 1, o.Theta, 1e-5)
}

func TestOrbitControlsPolarClamp(t *testing.T) {
	o := NewOrbitControls()
	o.EnableDamping = false
	o.RotateAngles(0, -10)
	o.Update()
	assert.Greater(t, o.Phi, 0.0)
	p := o.Position()
	assert.InDelta(t, 200, p.Len(), 1e-6)
	assert.False(t, math.IsNaN(p.X()))
}

func TestOrbitControlsRotateDrag(t *testing.T) {
	o := NewOrbitControls()
	o.EnableDamping = false
	o.Rotate(100, 0, 400)
	o.Update()
	assert.InDelta(t, -2*math.Pi*100/400*0.5, o.Theta, 1e-12)
}

func TestCameraFromControls(t *testing.T) {
	o := NewOrbitControls()
	o.Distance = 250
	c := o.Camera(2)
	assert.InDelta(t, 250, c.Position.Len(), 1e-9)
	assert.Equal(t, 2.0, c.Aspect)
	assert.Equal(t, 75.0, c.FovY)
}

func TestOrbitControlsFace(t *testing.T) {
	o := NewOrbitControls()
	o.RotateAngles(1, 1)
	target := LatLonToVec3(35, 139, Radius)
	o.Face(target)
	assert.False(t, o.Moving())

	p := o.Position()
	assert.InDelta(t, 1, p.Normalize().Dot(target.Normalize()), 1e-9)
	assert.True(t, FacesCamera(target, Center, p))
}
