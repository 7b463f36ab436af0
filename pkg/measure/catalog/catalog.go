// Package catalog defines the fixed set of unit categories the converter
// accepts, the alias table used to normalize informal unit tokens, and the
// resolver that maps a unit name back to its category.
//
// All tables are declared once at package level and are only exposed through
// accessors that return copies, so they cannot be modified at runtime.
package catalog

// Category names a dimensional family such as Length or Temperature.
type Category string

// Category identifiers
const (
	Length      Category = "Length"
	Weight      Category = "Weight"
	Temperature Category = "Temperature"
	Time        Category = "Time"
	Area        Category = "Area"
	Speed       Category = "Speed"
	Volume      Category = "Volume"
	Energy      Category = "Energy"
	Pressure    Category = "Pressure"
	Power       Category = "Power"
)

// entry is one row of the catalog. Order matters: the resolver scans rows in
// declaration order and returns the first hit.
type entry struct {
	category Category
	units    []string
}

// unitCatalog maps each category to its recognized unit names.
// The lists are deliberately narrower than what the engine understands.
var unitCatalog = []entry{
	{Length, []string{"nanometer", "nm", "millimeter", "mm", "centimeter", "cm", "meter", "kilometer", "mile", "yard", "foot", "inch"}},
	{Weight, []string{"gram", "kilogram", "ton", "pound", "ounce"}},
	{Temperature, []string{"celsius", "fahrenheit", "kelvin"}},
	{Time, []string{"second", "minute", "hour", "day"}},
	{Area, []string{"square meter", "square kilometer", "square mile", "acre"}},
	{Speed, []string{"m/s", "km/h", "mph", "knot"}},
	{Volume, []string{"liter", "litre", "millilitre", "gallon", "cubic meter", "fluid ounce", "fl oz"}},
	{Energy, []string{"joule", "calorie", "watt-hour"}},
	{Pressure, []string{"pascal", "bar", "psi"}},
	{Power, []string{"watt", "kilowatt", "horsepower"}},
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(unitCatalog))
	for _, e := range unitCatalog {
		out = append(out, e.category)
	}
	return out
}

// Units returns a copy of the unit list for a category, or nil if the
// category is not in the catalog.
func Units(c Category) []string {
	for _, e := range unitCatalog {
		if e.category == c {
			out := make([]string, len(e.units))
			copy(out, e.units)
			return out
		}
	}
	return nil
}

// AllUnits returns every catalog unit name in declaration order.
func AllUnits() []string {
	var out []string
	for _, e := range unitCatalog {
		out = append(out, e.units...)
	}
	return out
}

// LookupCategory finds a category by name, ignoring case.
func LookupCategory(name string) (Category, bool) {
	folded := fold(name)
	for _, e := range unitCatalog {
		if fold(string(e.category)) == folded {
			return e.category, true
		}
	}
	return "", false
}

// Contains reports whether unit is listed under category c, ignoring case.
func Contains(c Category, unit string) bool {
	folded := fold(unit)
	for _, e := range unitCatalog {
		if e.category != c {
			continue
		}
		for _, u := range e.units {
			if fold(u) == folded {
				return true
			}
		}
	}
	return false
}
