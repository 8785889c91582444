// Package shader reflects WGSL sources with naga so that callers can check
// entry points and resource bindings before handing a module to the GPU.
package shader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Shader errors.
var (
	// ErrInvalid is returned when the source fails to parse, lower or validate.
	ErrInvalid = errors.New("shader: invalid WGSL")

	// ErrMissingEntryPoint is returned by Require when an entry point is absent
	// or declared for another stage.
	ErrMissingEntryPoint = errors.New("shader: missing entry point")
)

// Stage is a pipeline stage an entry point runs in.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	StageCompute
	StageOther
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return "other"
	}
}

func stageOf(s ir.ShaderStage) Stage {
	switch s {
	case ir.StageVertex:
		return StageVertex
	case ir.StageFragment:
		return StageFragment
	case ir.StageCompute:
		return StageCompute
	default:
		return StageOther
	}
}

// EntryPoint is one shader entry point.
type EntryPoint struct {
	Name  string
	Stage Stage

	// Inputs lists the @location indices consumed by the entry point,
	// including locations of struct members passed as arguments. Sorted.
	Inputs []uint32
}

// Binding is a module-scope resource declared with @group/@binding.
type Binding struct {
	Name    string
	Group   uint32
	Binding uint32
}

// Info is the reflected interface of a WGSL module.
type Info struct {
	EntryPoints []EntryPoint
	Bindings    []Binding
}

// Reflect parses, lowers and validates src.
func Reflect(src string) (*Info, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	module, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i := range verrs {
			errs[i] = verrs[i]
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	info := &Info{}
	for _, ep := range module.EntryPoints {
		info.EntryPoints = append(info.EntryPoints, EntryPoint{
			Name:   ep.Name,
			Stage:  stageOf(ep.Stage),
			Inputs: inputLocations(module, ep.Function.Arguments),
		})
	}
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		info.Bindings = append(info.Bindings, Binding{
			Name:    gv.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
		})
	}
	return info, nil
}

func inputLocations(m *ir.Module, args []ir.FunctionArgument) []uint32 {
	var locs []uint32
	for _, arg := range args {
		if loc, ok := location(arg.Binding); ok {
			locs = append(locs, loc)
			continue
		}
		if int(arg.Type) >= len(m.Types) {
			continue
		}
		st, ok := m.Types[arg.Type].Inner.(ir.StructType)
		if !ok {
			continue
		}
		for _, member := range st.Members {
			if loc, ok := location(member.Binding); ok {
				locs = append(locs, loc)
			}
		}
	}
	slices.Sort(locs)
	return locs
}

func location(b *ir.Binding) (uint32, bool) {
	if b == nil {
		return 0, false
	}
	switch lb := (*b).(type) {
	case ir.LocationBinding:
		return lb.Location, true
	case *ir.LocationBinding:
		return lb.Location, true
	}
	return 0, false
}

// EntryPoint looks up an entry point by name.
func (i *Info) EntryPoint(name string) (EntryPoint, bool) {
	for _, ep := range i.EntryPoints {
		if ep.Name == name {
			return ep, true
		}
	}
	return EntryPoint{}, false
}

// Require returns ErrMissingEntryPoint unless name exists for stage.
func (i *Info) Require(name string, stage Stage) error {
	ep, ok := i.EntryPoint(name)
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrMissingEntryPoint, stage, name)
	}
	if ep.Stage != stage {
		return fmt.Errorf("%w: %q is a %s entry point, want %s", ErrMissingEntryPoint, name, ep.Stage, stage)
	}
	return nil
}
