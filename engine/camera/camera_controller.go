package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns the camera's position and target. The orbit controller keeps the position on a
// sphere around the target described by radius, azimuth and elevation.
type CameraController interface {
	// Position returns the camera's world-space position.
	Position() mgl32.Vec3

	// Target returns the look-at point.
	Target() mgl32.Vec3

	// SetTarget moves the pivot point and recomputes the position from the orbit angles.
	//
	// Parameters:
	//   - target: world-space pivot
	SetTarget(target mgl32.Vec3)

	// Zoom changes the orbit radius by delta scaled by the zoom speed, clamped to the radius bounds.
	// Positive delta moves closer to the target.
	//
	// Parameters:
	//   - delta: zoom amount, e.g. a scroll wheel delta
	Zoom(delta float32)

	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to the elevation bounds.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to the elevation bounds.
	OrbitDown()

	// Radius returns the distance from the target.
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to the radius bounds.
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around the Y axis in radians.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle in radians.
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical angle above the horizontal plane in radians.
	Elevation() float32

	// SetElevation sets the vertical angle in radians, clamped to the elevation bounds.
	SetElevation(elevation float32)

	// PanRight translates position and target along the camera's local right axis.
	//
	// Parameters:
	//   - delta: pan amount scaled by the pan speed; negative moves left
	PanRight(delta float32)

	// PanUp translates position and target along the camera's local up axis.
	//
	// Parameters:
	//   - delta: pan amount scaled by the pan speed; negative moves down
	PanUp(delta float32)
}

// cameraControllerImpl is the orbit implementation of CameraController.
type cameraControllerImpl struct {
	position mgl32.Vec3
	target   mgl32.Vec3

	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed float32
	zoomSpeed  float32
	panSpeed   float32
}

var _ CameraController = &cameraControllerImpl{}

// NewOrbitController creates an orbit controller looking at the origin from 3 units away, slightly above the
// horizon.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		radius:       3,
		elevation:    float32(math.Pi / 12),
		minRadius:    0.5,
		maxRadius:    100,
		minElevation: -float32(math.Pi/2) + 0.01,
		maxElevation: float32(math.Pi/2) - 0.01,
		orbitSpeed:   0.05,
		zoomSpeed:    0.25,
		panSpeed:     0.05,
	}
	for _, opt := range options {
		opt(cc)
	}
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl32.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// updatePosition places the camera on the orbit sphere around the target.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// localAxes returns the right and up axes matching LookAt with world up +Y.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	backward := cc.position.Sub(cc.target)
	if backward.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	backward = backward.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(backward)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	return right, backward.Cross(right)
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 { return cc.position }
func (cc *cameraControllerImpl) Target() mgl32.Vec3   { return cc.target }
func (cc *cameraControllerImpl) Radius() float32      { return cc.radius }
func (cc *cameraControllerImpl) Azimuth() float32     { return cc.azimuth }
func (cc *cameraControllerImpl) Elevation() float32   { return cc.elevation }

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.SetRadius(cc.radius - delta*cc.zoomSpeed)
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.SetAzimuth(cc.azimuth - cc.orbitSpeed)
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.SetAzimuth(cc.azimuth + cc.orbitSpeed)
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.SetElevation(cc.elevation + cc.orbitSpeed)
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.SetElevation(cc.elevation - cc.orbitSpeed)
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.radius = mgl32.Clamp(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.elevation = mgl32.Clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) PanRight(delta float32) {
	right, _ := cc.localAxes()
	offset := right.Mul(delta * cc.panSpeed)
	cc.position = cc.position.Add(offset)
	cc.target = cc.target.Add(offset)
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	_, up := cc.localAxes()
	offset := up.Mul(delta * cc.panSpeed)
	cc.position = cc.position.Add(offset)
	cc.target = cc.target.Add(offset)
}
