package globe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const minPolar = 1e-6

// OrbitControls orbits a camera around Target with damped rotation and clamped distance.
type OrbitControls struct {
	Target mgl64.Vec3

	Distance float64
	Theta    float64 // azimuth around +Y, radians
	Phi      float64 // polar angle from +Y, radians

	MinDistance float64
	MaxDistance float64

	RotateSpeed   float64
	EnableDamping bool
	DampingFactor float64

	// pending rotation, consumed by Update
	deltaTheta float64
	deltaPhi   float64
}

// NewOrbitControls starts on +Z at distance 200 with the globe's distance limits.
func NewOrbitControls() *OrbitControls {
	return &OrbitControls{
		Target:        Center,
		Distance:      200,
		Theta:         0,
		Phi:           math.Pi / 2,
		MinDistance:   120,
		MaxDistance:   300,
		RotateSpeed:   0.5,
		EnableDamping: true,
		DampingFactor: 0.05,
	}
}

// Rotate queues a rotation for a pointer drag of (dx, dy) pixels in a viewport height tall.
func (o *OrbitControls) Rotate(dx, dy, height float64) {
	if height <= 0 {
		return
	}
	o.deltaTheta -= 2 * math.Pi * dx / height * o.RotateSpeed
	o.deltaPhi -= 2 * math.Pi * dy / height * o.RotateSpeed
}

// RotateAngles queues a rotation given directly in radians.
func (o *OrbitControls) RotateAngles(dTheta, dPhi float64) {
	o.deltaTheta += dTheta
	o.deltaPhi += dPhi
}

// Zoom scales the distance by factor (<1 moves closer) and clamps it.
func (o *OrbitControls) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	o.Distance = o.clampDistance(o.Distance * factor)
}

// Update applies pending rotation and reports whether the camera moved.
func (o *OrbitControls) Update() bool {
	dTheta, dPhi := o.deltaTheta, o.deltaPhi
	if o.EnableDamping {
		dTheta *= o.DampingFactor
		dPhi *= o.DampingFactor
	}

	theta := o.Theta + dTheta
	phi := o.Phi + dPhi
	if phi < minPolar {
		phi = minPolar
	}
	if phi > math.Pi-minPolar {
		phi = math.Pi - minPolar
	}
	moved := math.Abs(theta-o.Theta) > 1e-9 || math.Abs(phi-o.Phi) > 1e-9
	o.Theta, o.Phi = theta, phi

	if o.EnableDamping {
		o.deltaTheta *= 1 - o.DampingFactor
		o.deltaPhi *= 1 - o.DampingFactor
		if math.Abs(o.deltaTheta) < 1e-7 {
			o.deltaTheta = 0
		}
		if math.Abs(o.deltaPhi) < 1e-7 {
			o.deltaPhi = 0
		}
	} else {
		o.deltaTheta, o.deltaPhi = 0, 0
	}
	o.Distance = o.clampDistance(o.Distance)
	return moved
}

// Moving reports whether queued rotation is still being applied.
func (o *OrbitControls) Moving() bool {
	return o.deltaTheta != 0 || o.deltaPhi != 0
}

// Position returns the camera position in world space.
func (o *OrbitControls) Position() mgl64.Vec3 {
	sinPhi := math.Sin(o.Phi)
	return o.Target.Add(mgl64.Vec3{
		o.Distance * sinPhi * math.Sin(o.Theta),
		o.Distance * math.Cos(o.Phi),
		o.Distance * sinPhi * math.Cos(o.Theta),
	})
}

// Camera returns a camera placed by the controls.
func (o *OrbitControls) Camera(aspect float64) Camera {
	c := NewCamera(aspect)
	c.Position = o.Position()
	c.Target = o.Target
	return c
}

func (o *OrbitControls) clampDistance(d float64) float64 {
	if d < o.MinDistance {
		return o.MinDistance
	}
	if o.MaxDistance > 0 && d > o.MaxDistance {
		return o.MaxDistance
	}
	return d
}

// Face turns the camera to look at the globe along dir, dropping queued rotation.
func (o *OrbitControls) Face(dir mgl64.Vec3) {
	if dir.Len() == 0 {
		return
	}
	d := dir.Normalize()
	o.Phi = clamp(math.Acos(clamp(d.Y(), -1, 1)), minPolar, math.Pi-minPolar)
	o.Theta = math.Atan2(d.X(), d.Z())
	o.deltaTheta, o.deltaPhi = 0, 0
}
