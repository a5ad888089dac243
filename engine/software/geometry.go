package software

import (
	"math"

	"github.com/Carmen-Shannon/oxy-trace/engine/encoder"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	tMin = 1e-3
	tMax = float32(math.MaxFloat32)
)

type ray struct {
	origin mgl32.Vec3
	dir    mgl32.Vec3
}

func (r ray) at(t float32) mgl32.Vec3 {
	return r.origin.Add(r.dir.Mul(t))
}

type hit struct {
	t         float32
	normal    mgl32.Vec3
	color     mgl32.Vec3
	roughness float32
	emission  float32
}

func hitSphere(r ray, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.origin.Sub(center)
	b := oc.Dot(r.dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	if t := -b - sq; t > tMin {
		return t, true
	}
	if t := -b + sq; t > tMin {
		return t, true
	}
	return 0, false
}

// hitBox intersects an axis-aligned cube of edge length size centred at center.
func hitBox(r ray, center mgl32.Vec3, size float32) (float32, mgl32.Vec3, bool) {
	half := size / 2
	near, far := -tMax, tMax
	var normal mgl32.Vec3

	for axis := range 3 {
		lo := center[axis] - half - r.origin[axis]
		hi := center[axis] + half - r.origin[axis]
		if r.dir[axis] == 0 {
			if lo > 0 || hi < 0 {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}

		inv := 1 / r.dir[axis]
		t0, t1 := lo*inv, hi*inv
		sign := float32(-1)
		if t0 > t1 {
			t0, t1 = t1, t0
			sign = 1
		}
		if t0 > near {
			near = t0
			normal = mgl32.Vec3{}
			normal[axis] = sign
		}
		far = min(far, t1)
		if near > far {
			return 0, mgl32.Vec3{}, false
		}
	}

	if near > tMin {
		return near, normal, true
	}
	if far > tMin {
		// origin inside the box: report the exit face
		p := r.at(far).Sub(center)
		return far, dominantAxis(p), true
	}
	return 0, mgl32.Vec3{}, false
}

func dominantAxis(p mgl32.Vec3) mgl32.Vec3 {
	ax := 0
	for i := 1; i < 3; i++ {
		if abs32(p[i]) > abs32(p[ax]) {
			ax = i
		}
	}
	var n mgl32.Vec3
	n[ax] = 1
	if p[ax] < 0 {
		n[ax] = -1
	}
	return n
}

// hitFloor intersects the y=0 plane from above.
func hitFloor(r ray) (float32, bool) {
	if r.dir[1] >= 0 || r.origin[1] <= 0 {
		return 0, false
	}
	t := -r.origin[1] / r.dir[1]
	return t, t > tMin
}

func floorColor(p mgl32.Vec3, pattern bool) mgl32.Vec3 {
	if !pattern {
		return mgl32.Vec3{0.6, 0.6, 0.6}
	}
	cx := int(math.Floor(float64(p[0])))
	cz := int(math.Floor(float64(p[2])))
	if (cx+cz)&1 == 0 {
		return mgl32.Vec3{0.8, 0.8, 0.8}
	}
	return mgl32.Vec3{0.25, 0.25, 0.25}
}

// intersect finds the closest hit against the encoded scene and the floor.
func intersect(r ray, enc *encoder.EncodedScene) (hit, bool) {
	best := hit{t: tMax}
	found := false

	s := &enc.Spheres
	for i := range s.Count {
		center := mgl32.Vec3(s.Positions[i])
		if t, ok := hitSphere(r, center, s.Sizes[i]); ok && t < best.t {
			best = hit{
				t:         t,
				normal:    r.at(t).Sub(center).Normalize(),
				color:     mgl32.Vec3(s.Colors[i]),
				roughness: s.Roughness[i],
				emission:  s.Emission[i],
			}
			found = true
		}
	}

	b := &enc.Boxes
	for i := range b.Count {
		if t, n, ok := hitBox(r, mgl32.Vec3(b.Positions[i]), b.Sizes[i]); ok && t < best.t {
			best = hit{
				t:         t,
				normal:    n,
				color:     mgl32.Vec3(b.Colors[i]),
				roughness: b.Roughness[i],
				emission:  b.Emission[i],
			}
			found = true
		}
	}

	if t, ok := hitFloor(r); ok && t < best.t {
		best = hit{
			t:         t,
			normal:    mgl32.Vec3{0, 1, 0},
			color:     floorColor(r.at(t), enc.FloorPattern),
			roughness: 1,
		}
		found = true
	}

	return best, found
}

func sky(dir mgl32.Vec3) mgl32.Vec3 {
	a := 0.5 * (dir[1] + 1)
	horizon := mgl32.Vec3{1, 1, 1}
	zenith := mgl32.Vec3{0.5, 0.7, 1}
	return horizon.Mul(1 - a).Add(zenith.Mul(a))
}

func reflect(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
