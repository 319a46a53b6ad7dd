package units

import (
	"math"
	"strconv"
)

// SI base units. Every built-in unit decomposes into these.
const (
	Ampere   = "ampere"
	Candela  = "candela"
	Kelvin   = "kelvin"
	Kilogram = "kilogram"
	Metre    = "metre"
	Mole     = "mole"
	Second   = "second"
)

var baseUnits = map[string]bool{
	Ampere:   true,
	Candela:  true,
	Kelvin:   true,
	Kilogram: true,
	Metre:    true,
	Mole:     true,
	Second:   true,
}

// standardUnits maps the built-in CellML units to their SI decomposition.
// Offsets (celsius) are not representable and are ignored.
var standardUnits = map[string]Expression{
	"becquerel":     Of(Second, -1),
	"celsius":       Of(Kelvin, 1),
	"coulomb":       Of(Ampere, 1, Second, 1),
	"dimensionless": {},
	"farad":         Of(Kilogram, -1, Metre, -2, Second, 4, Ampere, 2),
	"gram":          scaled(Of(Kilogram, 1), 1e-3),
	"gray":          Of(Metre, 2, Second, -2),
	"henry":         Of(Kilogram, 1, Metre, 2, Second, -2, Ampere, -2),
	"hertz":         Of(Second, -1),
	"joule":         Of(Kilogram, 1, Metre, 2, Second, -2),
	"katal":         Of(Mole, 1, Second, -1),
	"liter":         scaled(Of(Metre, 3), 1e-3),
	"litre":         scaled(Of(Metre, 3), 1e-3),
	"lumen":         Of(Candela, 1),
	"lux":           Of(Candela, 1, Metre, -2),
	"meter":         Of(Metre, 1),
	"newton":        Of(Kilogram, 1, Metre, 1, Second, -2),
	"ohm":           Of(Kilogram, 1, Metre, 2, Second, -3, Ampere, -2),
	"pascal":        Of(Kilogram, 1, Metre, -1, Second, -2),
	"radian":        {},
	"siemens":       Of(Kilogram, -1, Metre, -2, Second, 3, Ampere, 2),
	"sievert":       Of(Metre, 2, Second, -2),
	"steradian":     {},
	"tesla":         Of(Kilogram, 1, Second, -2, Ampere, -1),
	"volt":          Of(Kilogram, 1, Metre, 2, Second, -3, Ampere, -1),
	"watt":          Of(Kilogram, 1, Metre, 2, Second, -3),
	"weber":         Of(Kilogram, 1, Metre, 2, Second, -2, Ampere, -1),
}

// prefixes maps SI prefix names to their power of ten.
var prefixes = map[string]int{
	"yotta": 24, "zetta": 21, "exa": 18, "peta": 15, "tera": 12,
	"giga": 9, "mega": 6, "kilo": 3, "hecto": 2, "deca": 1, "deka": 1,
	"deci": -1, "centi": -2, "milli": -3, "micro": -6, "nano": -9,
	"pico": -12, "femto": -15, "atto": -18, "zepto": -21, "yocto": -24,
}

// IsBase reports whether name is one of the seven SI base units.
func IsBase(name string) bool {
	return baseUnits[name]
}

// IsStandard reports whether name is a built-in unit (base or derived).
func IsStandard(name string) bool {
	if baseUnits[name] {
		return true
	}
	_, ok := standardUnits[name]
	return ok
}

// Standard returns the SI decomposition of a built-in unit. Base units
// decompose to themselves.
func Standard(name string) (Expression, bool) {
	if baseUnits[name] {
		return Atomic(name), true
	}
	e, ok := standardUnits[name]
	if !ok {
		return nil, false
	}
	return e.Pow(1), true
}

// Prefix returns the scale factor for a prefix name ("milli") or an integer
// power-of-ten prefix ("-3"). The empty prefix scales by one.
func Prefix(name string) (float64, bool) {
	if name == "" {
		return 1, true
	}
	if p, ok := prefixes[name]; ok {
		return math.Pow10(p), true
	}
	if n, err := strconv.Atoi(name); err == nil {
		return math.Pow10(n), true
	}
	return 0, false
}

func scaled(e Expression, factor float64) Expression {
	if len(e) > 0 {
		e[0].Multiplier *= factor
	}
	return e
}
