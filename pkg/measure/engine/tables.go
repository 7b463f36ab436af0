package engine

// Unit system identifiers
const (
	SystemSI    = "SI"
	SystemUS    = "US"
	SystemOther = "other"
)

// Dimension holds base-quantity exponents: length, mass, time, temperature.
type Dimension [4]int8

// Base dimensions and the derived ones the registry uses.
var (
	DimLength      = Dimension{1, 0, 0, 0}
	DimMass        = Dimension{0, 1, 0, 0}
	DimTime        = Dimension{0, 0, 1, 0}
	DimTemperature = Dimension{0, 0, 0, 1}
	DimArea        = Dimension{2, 0, 0, 0}
	DimVolume      = Dimension{3, 0, 0, 0}
	DimSpeed       = Dimension{1, 0, -1, 0}
	DimEnergy      = Dimension{2, 1, -2, 0}
	DimPressure    = Dimension{-1, 1, -2, 0}
	DimPower       = Dimension{2, 1, -3, 0}
)

// quantityNames labels the dimensions used in messages.
var quantityNames = map[Dimension]string{
	DimLength:      "length",
	DimMass:        "mass",
	DimTime:        "time",
	DimTemperature: "temperature",
	DimArea:        "area",
	DimVolume:      "volume",
	DimSpeed:       "speed",
	DimEnergy:      "energy",
	DimPressure:    "pressure",
	DimPower:       "power",
}

// Scale returns the dimension raised to an integer power.
func (d Dimension) Scale(n int8) Dimension {
	return Dimension{d[0] * n, d[1] * n, d[2] * n, d[3] * n}
}

// String names the quantity, falling back to the exponent vector.
func (d Dimension) String() string {
	if name, ok := quantityNames[d]; ok {
		return name
	}
	return formatExponents(d)
}

// --- Exact definitions ---
// Cross-system constants are fixed by international agreement, so the US
// units below are exact multiples of the SI base.

const (
	metresPerInch    = 0.0254                   // international inch
	metresPerFoot    = 12 * metresPerInch       // 0.3048
	metresPerYard    = 3 * metresPerFoot        // 0.9144
	metresPerMile    = 1760 * metresPerYard     // 1609.344
	metresPerNautMi  = 1852.0                   // international nautical mile
	kilogramsPerLb   = 0.45359237               // international avoirdupois pound
	kilogramsPerOz   = kilogramsPerLb / 16      // 0.028349523125
	kilogramsPerTon  = 2000 * kilogramsPerLb    // short ton, 907.18474
	cubicMetresPerGa = 231 * metresPerInch * metresPerInch * metresPerInch // US gallon
	newtonsPerLbf    = kilogramsPerLb * 9.80665 // standard gravity
	joulesPerCal     = 4.184                    // thermochemical calorie
	wattsPerHP       = 550 * metresPerFoot * newtonsPerLbf // mechanical horsepower
)

// definition registers one unit under its names. Names are matched ignoring
// case; the first name is canonical.
type definition struct {
	names  []string
	symbol string
	system string
	dim    Dimension
	factor float64 // SI base units per one unit
	offset float64 // added after scaling (affine units only)
}

var definitions = []definition{
	// Length (base: metre)
	{[]string{"meter", "meters", "metre", "metres"}, "m", SystemSI, DimLength, 1, 0},
	{[]string{"nanometer", "nanometers", "nanometre", "nanometres"}, "nm", SystemSI, DimLength, 1e-9, 0},
	{[]string{"micrometer", "micrometers", "micrometre", "micrometres", "micron", "microns", "um"}, "µm", SystemSI, DimLength, 1e-6, 0},
	{[]string{"millimeter", "millimeters", "millimetre", "millimetres"}, "mm", SystemSI, DimLength, 1e-3, 0},
	{[]string{"centimeter", "centimeters", "centimetre", "centimetres"}, "cm", SystemSI, DimLength, 1e-2, 0},
	{[]string{"kilometer", "kilometers", "kilometre", "kilometres"}, "km", SystemSI, DimLength, 1e3, 0},
	{[]string{"inch", "inches"}, "in", SystemUS, DimLength, metresPerInch, 0},
	{[]string{"foot", "feet"}, "ft", SystemUS, DimLength, metresPerFoot, 0},
	{[]string{"yard", "yards"}, "yd", SystemUS, DimLength, metresPerYard, 0},
	{[]string{"mile", "miles"}, "mi", SystemUS, DimLength, metresPerMile, 0},
	{[]string{"nautical mile", "nautical miles"}, "nmi", SystemOther, DimLength, metresPerNautMi, 0},

	// Mass (base: kilogram)
	{[]string{"kilogram", "kilograms", "kilo", "kilos"}, "kg", SystemSI, DimMass, 1, 0},
	{[]string{"gram", "grams", "gramme", "grammes"}, "g", SystemSI, DimMass, 1e-3, 0},
	{[]string{"milligram", "milligrams"}, "mg", SystemSI, DimMass, 1e-6, 0},
	{[]string{"tonne", "tonnes", "metric ton", "metric tons"}, "t", SystemSI, DimMass, 1e3, 0},
	{[]string{"ton", "tons", "short ton", "short tons"}, "ton", SystemUS, DimMass, kilogramsPerTon, 0},
	{[]string{"pound", "pounds", "lbs"}, "lb", SystemUS, DimMass, kilogramsPerLb, 0},
	{[]string{"ounce", "ounces"}, "oz", SystemUS, DimMass, kilogramsPerOz, 0},
	{[]string{"stone", "stones"}, "st", SystemOther, DimMass, 14 * kilogramsPerLb, 0},

	// Temperature (base: kelvin)
	{[]string{"kelvin", "kelvins"}, "K", SystemSI, DimTemperature, 1, 0},
	{[]string{"celsius", "degc", "degree celsius", "degrees celsius"}, "°C", SystemSI, DimTemperature, 1, 273.15},
	{[]string{"fahrenheit", "degf", "degree fahrenheit", "degrees fahrenheit"}, "°F", SystemUS, DimTemperature, 5.0 / 9.0, 273.15 - 32*5.0/9.0},

	// Time (base: second)
	{[]string{"second", "seconds", "sec", "secs"}, "s", SystemSI, DimTime, 1, 0},
	{[]string{"millisecond", "milliseconds"}, "ms", SystemSI, DimTime, 1e-3, 0},
	{[]string{"minute", "minutes", "mins"}, "min", SystemOther, DimTime, 60, 0},
	{[]string{"hour", "hours", "hr", "hrs"}, "h", SystemOther, DimTime, 3600, 0},
	{[]string{"day", "days"}, "d", SystemOther, DimTime, 86400, 0},
	{[]string{"week", "weeks"}, "wk", SystemOther, DimTime, 7 * 86400, 0},

	// Area (base: square metre); "square <length>" is composed at lookup
	{[]string{"acre", "acres"}, "ac", SystemUS, DimArea, 43560 * metresPerFoot * metresPerFoot, 0},
	{[]string{"hectare", "hectares"}, "ha", SystemSI, DimArea, 1e4, 0},

	// Speed (base: metre per second)
	{[]string{"meter per second", "meters per second", "metre per second", "metres per second", "mps"}, "m/s", SystemSI, DimSpeed, 1, 0},
	{[]string{"kilometer per hour", "kilometers per hour", "kilometre per hour", "kilometres per hour", "kph", "kmh"}, "km/h", SystemSI, DimSpeed, 1e3 / 3600, 0},
	{[]string{"mile per hour", "miles per hour"}, "mph", SystemUS, DimSpeed, metresPerMile / 3600, 0},
	{[]string{"foot per second", "feet per second", "fps"}, "ft/s", SystemUS, DimSpeed, metresPerFoot, 0},
	{[]string{"knot", "knots", "kn", "kt"}, "knot", SystemOther, DimSpeed, metresPerNautMi / 3600, 0},

	// Volume (base: cubic metre); "cubic <length>" is composed at lookup
	{[]string{"liter", "liters", "litre", "litres"}, "l", SystemSI, DimVolume, 1e-3, 0},
	{[]string{"milliliter", "milliliters", "millilitre", "millilitres"}, "ml", SystemSI, DimVolume, 1e-6, 0},
	{[]string{"gallon", "gallons"}, "gal", SystemUS, DimVolume, cubicMetresPerGa, 0},
	{[]string{"quart", "quarts"}, "qt", SystemUS, DimVolume, cubicMetresPerGa / 4, 0},
	{[]string{"pint", "pints"}, "pt", SystemUS, DimVolume, cubicMetresPerGa / 8, 0},
	{[]string{"fluid ounce", "fluid ounces", "floz"}, "fl oz", SystemUS, DimVolume, cubicMetresPerGa / 128, 0},

	// Energy (base: joule)
	{[]string{"joule", "joules"}, "J", SystemSI, DimEnergy, 1, 0},
	{[]string{"kilojoule", "kilojoules"}, "kJ", SystemSI, DimEnergy, 1e3, 0},
	{[]string{"calorie", "calories"}, "cal", SystemOther, DimEnergy, joulesPerCal, 0},
	{[]string{"kilocalorie", "kilocalories"}, "kcal", SystemOther, DimEnergy, 1e3 * joulesPerCal, 0},
	{[]string{"watt-hour", "watt-hours", "watt hour", "watt hours"}, "Wh", SystemSI, DimEnergy, 3600, 0},
	{[]string{"kilowatt-hour", "kilowatt-hours", "kilowatt hour", "kilowatt hours"}, "kWh", SystemSI, DimEnergy, 3.6e6, 0},

	// Pressure (base: pascal)
	{[]string{"pascal", "pascals"}, "Pa", SystemSI, DimPressure, 1, 0},
	{[]string{"kilopascal", "kilopascals"}, "kPa", SystemSI, DimPressure, 1e3, 0},
	{[]string{"bar", "bars"}, "bar", SystemOther, DimPressure, 1e5, 0},
	{[]string{"millibar", "millibars"}, "mbar", SystemOther, DimPressure, 1e2, 0},
	{[]string{"psi"}, "psi", SystemUS, DimPressure, newtonsPerLbf / (metresPerInch * metresPerInch), 0},
	{[]string{"atmosphere", "atmospheres"}, "atm", SystemOther, DimPressure, 101325, 0},

	// Power (base: watt)
	{[]string{"watt", "watts"}, "W", SystemSI, DimPower, 1, 0},
	{[]string{"kilowatt", "kilowatts"}, "kW", SystemSI, DimPower, 1e3, 0},
	{[]string{"megawatt", "megawatts"}, "MW", SystemSI, DimPower, 1e6, 0},
	{[]string{"horsepower"}, "hp", SystemUS, DimPower, wattsPerHP, 0},
}

// Prefixes that raise a length unit to a power at lookup time.
var powerPrefixes = []struct {
	prefix string
	power  int8
	label  string
}{
	{"square ", 2, "square"},
	{"sq ", 2, "square"},
	{"cubic ", 3, "cubic"},
	{"cu ", 3, "cubic"},
}
