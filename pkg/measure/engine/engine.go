// Package engine converts quantities between units of measurement.
//
// Units are looked up by name, plural or symbol (ignoring case), and length
// units may be squared or cubed with a "square " or "cubic " prefix. Each unit
// knows its dimension, its factor to the SI base unit and an optional offset
// for affine scales such as Celsius. A conversion is allowed only between
// units of identical dimension.
//
// Convert never returns a Go error; its Result names exactly one outcome so
// callers handle every case explicitly.
package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit describes one unit of measurement.
type Unit struct {
	Name   string    // canonical name (e.g., "kilometer")
	Symbol string    // display symbol (e.g., "km")
	System string    // "SI", "US", "other"
	Dim    Dimension // base-quantity exponents
	Factor float64   // SI base units per one unit
	Offset float64   // SI base value of this unit's zero
}

// Quantity is a magnitude expressed in a unit.
type Quantity struct {
	Magnitude float64
	Unit      Unit
}

// Format formats the magnitude with a fixed number of decimal places.
func (q Quantity) Format(precision int) string {
	return strconv.FormatFloat(q.Magnitude, 'f', precision, 64)
}

// Outcome tags the result of a conversion.
type Outcome int

const (
	OK             Outcome = iota // converted
	UndefinedUnit                 // a unit name is not in the registry
	Dimensionality                // units measure different quantities
	Other                         // any other failure
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case UndefinedUnit:
		return "undefined unit"
	case Dimensionality:
		return "dimensionality"
	case Other:
		return "other"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Result is the outcome of one conversion. Quantity is set only when
// Outcome is OK; Err describes every other outcome.
type Result struct {
	Outcome  Outcome
	Quantity Quantity
	Err      error
}

// UndefinedUnitError reports a unit name the registry does not know.
type UndefinedUnitError struct {
	Name string
}

func (e *UndefinedUnitError) Error() string {
	return fmt.Sprintf("'%s' is not defined in the unit registry", e.Name)
}

// DimensionalityError reports a conversion between incompatible units.
type DimensionalityError struct {
	From, To Unit
}

func (e *DimensionalityError) Error() string {
	return fmt.Sprintf("cannot convert from '%s' (%s) to '%s' (%s)", e.From.Name, e.From.Dim, e.To.Name, e.To.Dim)
}

// Engine is an immutable unit registry.
type Engine struct {
	units map[string]Unit
}

// Default is the engine built from the standard definitions.
var Default = New()

// New builds an engine from the standard definitions. It panics if two
// different units claim the same name, which is a programming error in the
// tables.
func New() *Engine {
	e := &Engine{units: make(map[string]Unit)}
	for _, d := range definitions {
		u := Unit{
			Name:   d.names[0],
			Symbol: d.symbol,
			System: d.system,
			Dim:    d.dim,
			Factor: d.factor,
			Offset: d.offset,
		}
		for _, key := range append(append([]string{}, d.names...), d.symbol) {
			e.register(key, u)
		}
	}
	return e
}

func (e *Engine) register(key string, u Unit) {
	key = strings.ToLower(key)
	if existing, ok := e.units[key]; ok && existing.Name != u.Name {
		panic(fmt.Sprintf("engine: %q registered for both %s and %s", key, existing.Name, u.Name))
	}
	e.units[key] = u
}

// Lookup finds a unit by name, plural, symbol, or a square/cubic prefix
// applied to a length unit.
func (e *Engine) Lookup(name string) (Unit, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if u, ok := e.units[key]; ok {
		return u, true
	}
	for _, p := range powerPrefixes {
		rest, found := strings.CutPrefix(key, p.prefix)
		if !found {
			continue
		}
		base, ok := e.units[rest]
		if !ok || base.Dim != DimLength || base.Offset != 0 {
			return Unit{}, false
		}
		return Unit{
			Name:   p.label + " " + base.Name,
			Symbol: base.Symbol + superscript(p.power),
			System: base.System,
			Dim:    base.Dim.Scale(p.power),
			Factor: math.Pow(base.Factor, float64(p.power)),
		}, true
	}
	return Unit{}, false
}

// Convert expresses magnitude in unit from as a quantity in unit to.
func (e *Engine) Convert(magnitude float64, from, to string) Result {
	src, ok := e.Lookup(from)
	if !ok {
		return Result{Outcome: UndefinedUnit, Err: &UndefinedUnitError{Name: from}}
	}
	dst, ok := e.Lookup(to)
	if !ok {
		return Result{Outcome: UndefinedUnit, Err: &UndefinedUnitError{Name: to}}
	}
	if src.Dim != dst.Dim {
		return Result{Outcome: Dimensionality, Err: &DimensionalityError{From: src, To: dst}}
	}
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return Result{Outcome: Other, Err: fmt.Errorf("cannot convert non-finite magnitude %v", magnitude)}
	}

	base := magnitude*src.Factor + src.Offset
	value := (base - dst.Offset) / dst.Factor
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{Outcome: Other, Err: fmt.Errorf("converting %v %s to %s overflows", magnitude, src.Name, dst.Name)}
	}

	return Result{Outcome: OK, Quantity: Quantity{Magnitude: value, Unit: dst}}
}

// Convert converts using the Default engine.
func Convert(magnitude float64, from, to string) Result {
	return Default.Convert(magnitude, from, to)
}

// superscript renders a small power as a Unicode superscript digit.
func superscript(n int8) string {
	switch n {
	case 2:
		return "²"
	case 3:
		return "³"
	default:
		return "^" + strconv.Itoa(int(n))
	}
}

// formatExponents renders a dimension as "[L^a M^b T^c Θ^d]", omitting zeros.
func formatExponents(d Dimension) string {
	labels := [4]string{"L", "M", "T", "Θ"}
	var parts []string
	for i, exp := range d {
		switch exp {
		case 0:
			continue
		case 1:
			parts = append(parts, labels[i])
		default:
			parts = append(parts, labels[i]+"^"+strconv.Itoa(int(exp)))
		}
	}
	if len(parts) == 0 {
		return "[dimensionless]"
	}
	return "[" + strings.Join(parts, " ") + "]"
}
