package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-trace/common"
)

// Limits enforced on edits; they match the ranges the editing panel exposes.
const (
	MinRoughness = 0.0
	MaxRoughness = 1.0
	MinEmission  = 0.0
	MaxEmission  = 10.0
)

var (
	// ErrIndexOutOfRange is returned when an edit targets a primitive that does not exist.
	ErrIndexOutOfRange = errors.New("scene: primitive index out of range")

	// ErrInvalidValue is returned when an edit carries a non-finite or non-positive value where one is required.
	ErrInvalidValue = errors.New("scene: invalid edit value")

	// ErrUnknownEdit is returned for edit commands the scene does not understand.
	ErrUnknownEdit = errors.New("scene: unknown edit command")
)

// EditCommand is a single mutation of the scene. Every editing path (panel widgets,
// key bindings, scripted changes) goes through Scene.ApplyEdit with one of these.
type EditCommand interface {
	apply(s *sceneImpl) (bool, error)
}

// SetFloorPattern toggles the checkered floor.
type SetFloorPattern struct {
	Enabled bool
}

// ToggleFloorPattern flips the checkered floor.
type ToggleFloorPattern struct{}

// SetColor sets a primitive's albedo. Components are clamped to [0,1].
type SetColor struct {
	Index int
	Color [3]float32
}

// SetRoughness sets a primitive's roughness. Clamped to [MinRoughness, MaxRoughness].
type SetRoughness struct {
	Index     int
	Roughness float32
}

// SetEmission sets a primitive's emission. Clamped to [MinEmission, MaxEmission].
type SetEmission struct {
	Index    int
	Emission float32
}

// SetPosition moves a primitive.
type SetPosition struct {
	Index    int
	Position [3]float32
}

// SetSize sets a primitive's radius (sphere) or size (box). Must be > 0.
type SetSize struct {
	Index int
	Size  float32
}

func (c SetFloorPattern) apply(s *sceneImpl) (bool, error) {
	if s.floorPattern == c.Enabled {
		return false, nil
	}
	s.floorPattern = c.Enabled
	return true, nil
}

func (c ToggleFloorPattern) apply(s *sceneImpl) (bool, error) {
	s.floorPattern = !s.floorPattern
	return true, nil
}

func (c SetColor) apply(s *sceneImpl) (bool, error) {
	p, err := s.primitive(c.Index)
	if err != nil {
		return false, err
	}
	var col [3]float32
	for i, v := range c.Color {
		if !common.Finite(v) {
			return false, fmt.Errorf("%w: color component %d is %v", ErrInvalidValue, i, v)
		}
		col[i] = common.Clamp(v, 0, 1)
	}
	if p.Color == col {
		return false, nil
	}
	p.Color = col
	return true, nil
}

func (c SetRoughness) apply(s *sceneImpl) (bool, error) {
	p, err := s.primitive(c.Index)
	if err != nil {
		return false, err
	}
	if !common.Finite(c.Roughness) {
		return false, fmt.Errorf("%w: roughness is %v", ErrInvalidValue, c.Roughness)
	}
	v := common.Clamp(c.Roughness, MinRoughness, MaxRoughness)
	if p.Roughness == v {
		return false, nil
	}
	p.Roughness = v
	return true, nil
}

func (c SetEmission) apply(s *sceneImpl) (bool, error) {
	p, err := s.primitive(c.Index)
	if err != nil {
		return false, err
	}
	if !common.Finite(c.Emission) {
		return false, fmt.Errorf("%w: emission is %v", ErrInvalidValue, c.Emission)
	}
	v := common.Clamp(c.Emission, MinEmission, MaxEmission)
	if p.Emission == v {
		return false, nil
	}
	p.Emission = v
	return true, nil
}

func (c SetPosition) apply(s *sceneImpl) (bool, error) {
	p, err := s.primitive(c.Index)
	if err != nil {
		return false, err
	}
	for i, v := range c.Position {
		if !common.Finite(v) {
			return false, fmt.Errorf("%w: position component %d is %v", ErrInvalidValue, i, v)
		}
	}
	if p.Position == c.Position {
		return false, nil
	}
	p.Position = c.Position
	return true, nil
}

func (c SetSize) apply(s *sceneImpl) (bool, error) {
	p, err := s.primitive(c.Index)
	if err != nil {
		return false, err
	}
	if !common.Finite(c.Size) || c.Size <= 0 {
		return false, fmt.Errorf("%w: size must be > 0, got %v", ErrInvalidValue, c.Size)
	}
	if p.Size == c.Size {
		return false, nil
	}
	p.Size = c.Size
	return true, nil
}
