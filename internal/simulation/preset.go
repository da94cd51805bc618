package simulation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Preset names
const (
	PresetFloor     = "floor"
	PresetAllFloors = "all-floors"
	PresetSidebar   = "sidebar"
)

// ErrUnknownPreset is returned when a preset name is not registered
var ErrUnknownPreset = errors.New("unknown preset")

// DefaultVelocityDecay is the fraction of velocity removed each tick
const DefaultVelocityDecay = 0.4

// Preset holds the force parameters and annealing schedule of one view
type Preset struct {
	Name string `json:"name" yaml:"name" validate:"required"`

	LinkDistance float64 `json:"linkDistance" yaml:"link_distance" validate:"gt=0"`
	LinkStrength float64 `json:"linkStrength" yaml:"link_strength" validate:"gte=0,lte=1"`

	// Charge is negative for repulsion
	Charge float64 `json:"charge" yaml:"charge" validate:"lte=0"`

	CenterStrength float64 `json:"centerStrength" yaml:"center_strength" validate:"gte=0,lte=1"`

	// CollisionRadius applies to a node of default radius; others scale with their style radius
	CollisionRadius   float64 `json:"collisionRadius" yaml:"collision_radius" validate:"gte=0"`
	CollisionStrength float64 `json:"collisionStrength" yaml:"collision_strength" validate:"gte=0,lte=1"`

	// AxisStrength pulls nodes toward the center lines; zero disables it
	AxisStrength float64 `json:"axisStrength" yaml:"axis_strength" validate:"gte=0,lte=1"`

	Alpha         float64 `json:"alpha" yaml:"alpha" validate:"gt=0,lte=1"`
	AlphaDecay    float64 `json:"alphaDecay" yaml:"alpha_decay" validate:"gt=0,lt=1"`
	AlphaMin      float64 `json:"alphaMin" yaml:"alpha_min" validate:"gt=0,ltfield=Alpha"`
	VelocityDecay float64 `json:"velocityDecay" yaml:"velocity_decay" validate:"gte=0,lt=1"`
}

var validate = validator.New()

// Validate checks the preset's ranges
func (p Preset) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("preset %s: %s failed %s %s", p.Name, e.Field(), e.Tag(), e.Param())
		}
		return fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return nil
}

// Floor is the main view preset for a single floor
func Floor() Preset {
	return Preset{
		Name:              PresetFloor,
		LinkDistance:      120,
		LinkStrength:      0.3,
		Charge:            -300,
		CenterStrength:    0.1,
		CollisionRadius:   40,
		CollisionStrength: 0.9,
		AxisStrength:      0.02,
		Alpha:             1,
		AlphaDecay:        0.008,
		AlphaMin:          0.001,
		VelocityDecay:     DefaultVelocityDecay,
	}
}

// AllFloors is the main view preset for the aggregate view. Core nodes are
// present and the graph is larger, so spacing is wider.
func AllFloors() Preset {
	return Preset{
		Name:              PresetAllFloors,
		LinkDistance:      140,
		LinkStrength:      0.3,
		Charge:            -400,
		CenterStrength:    0.1,
		CollisionRadius:   48,
		CollisionStrength: 0.9,
		AxisStrength:      0.03,
		Alpha:             1,
		AlphaDecay:        0.008,
		AlphaMin:          0.001,
		VelocityDecay:     DefaultVelocityDecay,
	}
}

// Sidebar is the ego view preset. It settles fast and has no axis force.
func Sidebar() Preset {
	return Preset{
		Name:              PresetSidebar,
		LinkDistance:      80,
		LinkStrength:      0.8,
		Charge:            -200,
		CenterStrength:    1,
		CollisionRadius:   25,
		CollisionStrength: 0.8,
		Alpha:             1,
		AlphaDecay:        0.09,
		AlphaMin:          0.001,
		VelocityDecay:     DefaultVelocityDecay,
	}
}

// Presets returns the built-in presets by name
func Presets() map[string]Preset {
	return map[string]Preset{
		PresetFloor:     Floor(),
		PresetAllFloors: AllFloors(),
		PresetSidebar:   Sidebar(),
	}
}

// Lookup returns a built-in preset by name
func Lookup(name string) (Preset, error) {
	p, ok := Presets()[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

// MaxSteps returns the number of ticks after which alpha falls below
// AlphaMin when cooling freely toward zero.
func (p Preset) MaxSteps() int {
	steps := 0
	for a := p.Alpha; a >= p.AlphaMin; a += (0 - a) * p.AlphaDecay {
		steps++
	}
	return steps
}
