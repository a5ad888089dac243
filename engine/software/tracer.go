// Package software is a CPU reference implementation of the shader contract. It renders the encoded
// scene with a small path tracer and implements the render target allocator over in-memory images,
// which lets the renderer run headless.
package software

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-trace/engine/accumulation"
	"github.com/Carmen-Shannon/oxy-trace/engine/frame"
	"github.com/Carmen-Shannon/oxy-trace/log"
	"github.com/go-gl/mathgl/mgl32"
)

var logger = log.New("software")

// ErrForeignTarget is returned when a target was not allocated by a software Tracer.
var ErrForeignTarget = errors.New("target was not allocated by the software tracer")

type tracerImpl struct {
	mu *sync.Mutex

	pool     worker.DynamicWorkerPool
	workers  int
	maxDepth int
	fovY     float32
	jitter   bool
	seed     int64

	passes    uint64
	presented uint64
	last      *Image
}

// Tracer renders samples on the CPU and owns in-memory render targets.
type Tracer interface {
	accumulation.TargetAllocator
	frame.ShaderPass

	// LastPresented returns the image most recently passed to Present, or nil.
	//
	// Returns:
	//   - *Image: the presented image
	LastPresented() *Image

	// Presented returns how many images have been presented.
	//
	// Returns:
	//   - uint64: the present count
	Presented() uint64
}

var _ Tracer = &tracerImpl{}

// NewTracer creates a CPU tracer backed by a dynamic worker pool.
//
// Parameters:
//   - options: functional options to configure the tracer
//
// Returns:
//   - Tracer: the new tracer
func NewTracer(options ...TracerBuilderOption) Tracer {
	t := &tracerImpl{
		mu:       &sync.Mutex{},
		workers:  runtime.NumCPU(),
		maxDepth: 4,
		fovY:     float32(math.Pi / 3),
		jitter:   true,
		seed:     time.Now().UnixNano(),
	}

	for _, opt := range options {
		opt(t)
	}

	t.pool = worker.NewDynamicWorkerPool(t.workers, 256, 1*time.Second)
	return t
}

func (t *tracerImpl) Allocate(width, height int) (accumulation.Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cannot allocate a %dx%d image", width, height)
	}
	return newImage(width, height), nil
}

func (t *tracerImpl) Clear(target accumulation.Target) error {
	img, ok := target.(*Image)
	if !ok {
		return ErrForeignTarget
	}
	img.fill(mgl32.Vec3{})
	return nil
}

func (t *tracerImpl) Present(target accumulation.Target) error {
	img, ok := target.(*Image)
	if !ok {
		return ErrForeignTarget
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = img
	t.presented++
	return nil
}

func (t *tracerImpl) Release(target accumulation.Target) {
	img, ok := target.(*Image)
	if !ok {
		return
	}

	t.mu.Lock()
	if t.last == img {
		t.last = nil
	}
	t.mu.Unlock()

	img.pix = nil
}

func (t *tracerImpl) LastPresented() *Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *tracerImpl) Presented() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.presented
}

// Trace renders one sample per pixel and blends it with the history as a running average.
// Rows are split into bands that run on the worker pool; Trace returns once every band is done.
func (t *tracerImpl) Trace(u frame.Uniforms, target accumulation.Target) error {
	out, ok := target.(*Image)
	if !ok {
		return ErrForeignTarget
	}
	var history *Image
	if u.SampleIndex > 0 && u.History != nil {
		if history, ok = u.History.(*Image); !ok {
			return ErrForeignTarget
		}
	}

	t.mu.Lock()
	pass := t.passes
	t.passes++
	t.mu.Unlock()

	cam := newPinhole(u, t.fovY)
	weight := 1 / float32(u.SampleIndex+1)

	bands := min(out.height, max(1, t.workers*4))
	rowsPerBand := (out.height + bands - 1) / bands

	var wg sync.WaitGroup
	for band := range bands {
		y0 := band * rowsPerBand
		y1 := min(out.height, y0+rowsPerBand)
		if y0 >= y1 {
			continue
		}

		wg.Add(1)
		id := band
		t.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()

				rng := rand.New(rand.NewSource(t.seed ^ int64(pass)<<24 ^ int64(id)))
				for y := y0; y < y1; y++ {
					for x := range out.width {
						jx, jy := float32(0.5), float32(0.5)
						if t.jitter {
							jx, jy = rng.Float32(), rng.Float32()
						}
						uu := (float32(x) + jx) / float32(out.width)
						vv := (float32(y) + jy) / float32(out.height)

						sample := t.radiance(cam.ray(uu, vv), &u, rng)
						if history != nil {
							prev := history.sampleUV(uu, vv)
							sample = prev.Add(sample.Sub(prev).Mul(weight))
						}
						out.Set(x, y, sample)
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	logger.Debugf("pass %d: sample %d into %dx%d", pass, u.SampleIndex, out.width, out.height)
	return nil
}

func (t *tracerImpl) radiance(r ray, u *frame.Uniforms, rng *rand.Rand) mgl32.Vec3 {
	var radiance mgl32.Vec3
	throughput := mgl32.Vec3{1, 1, 1}

	for range t.maxDepth {
		h, ok := intersect(r, &u.Scene)
		if !ok {
			return radiance.Add(mul(throughput, sky(r.dir)))
		}

		if h.emission > 0 {
			radiance = radiance.Add(mul(throughput, h.color.Mul(h.emission)))
		}
		throughput = mul(throughput, h.color)

		normal := h.normal
		if normal.Dot(r.dir) > 0 {
			normal = normal.Mul(-1)
		}

		mirror := reflect(r.dir, normal)
		diffuse := cosineHemisphere(normal, rng)
		next := mirror.Mul(1 - h.roughness).Add(diffuse.Mul(h.roughness))
		if next.Len() < 1e-6 {
			next = normal
		}

		r = ray{origin: r.at(h.t).Add(normal.Mul(tMin)), dir: next.Normalize()}
	}

	return radiance
}

func mul(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func cosineHemisphere(n mgl32.Vec3, rng *rand.Rand) mgl32.Vec3 {
	a := 2 * math.Pi * rng.Float64()
	z := rng.Float64()
	r := math.Sqrt(z)

	helper := mgl32.Vec3{1, 0, 0}
	if abs32(n[0]) > 0.1 {
		helper = mgl32.Vec3{0, 1, 0}
	}
	tangent := helper.Cross(n).Normalize()
	bitangent := n.Cross(tangent)

	return tangent.Mul(float32(r * math.Cos(a))).
		Add(bitangent.Mul(float32(r * math.Sin(a)))).
		Add(n.Mul(float32(math.Sqrt(1 - z))))
}

type pinhole struct {
	origin  mgl32.Vec3
	forward mgl32.Vec3
	right   mgl32.Vec3
	up      mgl32.Vec3
	tanHalf float32
	aspect  float32
}

func newPinhole(u frame.Uniforms, fovY float32) pinhole {
	yaw := float64(u.Camera.Yaw)
	right := mgl32.Vec3{float32(-math.Cos(yaw)), 0, float32(math.Sin(yaw))}
	forward := u.Direction
	aspect := u.Aspect
	if aspect <= 0 {
		aspect = 1
	}

	return pinhole{
		origin:  u.Camera.Position,
		forward: forward,
		right:   right,
		up:      right.Cross(forward),
		tanHalf: float32(math.Tan(float64(fovY) / 2)),
		aspect:  aspect,
	}
}

// ray returns the primary ray through normalised screen coordinates, origin at the top left.
func (p pinhole) ray(u, v float32) ray {
	sx := (2*u - 1) * p.tanHalf * p.aspect
	sy := (1 - 2*v) * p.tanHalf
	dir := p.forward.Add(p.right.Mul(sx)).Add(p.up.Mul(sy)).Normalize()
	return ray{origin: p.origin, dir: dir}
}
