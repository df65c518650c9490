// Package camera computes view and projection matrices from an orbit controller and turns model matrices
// into the model.Transform drawables consume.
package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	view       mgl32.Mat4
	projection mgl32.Mat4

	controller CameraController
}

// Camera holds perspective settings and computes view/projection matrices from an attached CameraController.
// Call Update after moving the controller.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the world-to-eye matrix.
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the eye-to-clip matrix.
	ProjectionMatrix() mgl32.Mat4

	// Transform combines a model matrix with the camera into the matrices a drawable uploads.
	//
	// Parameters:
	//   - modelMatrix: the object's model-to-world matrix
	//
	// Returns:
	//   - model.Transform: ModelView = View * modelMatrix, Projection = the camera projection
	Transform(modelMatrix mgl32.Mat4) model.Transform

	// SetUp sets the world up vector.
	SetUp(up mgl32.Vec3)

	// SetFov sets the vertical field of view in radians.
	SetFov(fov float32)

	// SetAspect sets the aspect ratio, typically from a resize callback.
	SetAspect(aspect float32)

	// SetNear sets the near clipping plane distance.
	SetNear(near float32)

	// SetFar sets the far clipping plane distance.
	SetFar(far float32)

	// Controller returns the attached controller, or nil.
	Controller() CameraController

	// SetController attaches a controller and recomputes the matrices.
	SetController(ctrl CameraController)

	// Update recomputes the matrices from the controller's current position and target.
	Update()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera. Without a controller the view matrix is identity.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		up:     mgl32.Vec3{0, 1, 0},
		fov:    45.0 * (math.Pi / 180.0),
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
		view:   mgl32.Ident4(),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32                 { return c.fov }
func (c *cameraImpl) Aspect() float32              { return c.aspect }
func (c *cameraImpl) Near() float32                { return c.near }
func (c *cameraImpl) Far() float32                 { return c.far }
func (c *cameraImpl) ViewMatrix() mgl32.Mat4       { return c.view }
func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 { return c.projection }
func (c *cameraImpl) Controller() CameraController { return c.controller }

func (c *cameraImpl) Transform(modelMatrix mgl32.Mat4) model.Transform {
	return model.Transform{ModelView: c.view.Mul4(modelMatrix), Projection: c.projection}
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.up = up
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.near = near
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.far = far
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.updateMatrices()
}

// updateMatrices recalculates the projection, and the view from the controller when one is attached.
func (c *cameraImpl) updateMatrices() {
	c.projection = mgl32.Perspective(c.fov, c.aspect, c.near, c.far)
	if c.controller == nil {
		return
	}
	c.view = mgl32.LookAtV(c.controller.Position(), c.controller.Target(), c.up)
}
