package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// aliasTable maps informal or abbreviated tokens to canonical catalog names.
// Keys are lower case.
var aliasTable = map[string]string{
	"km":     "kilometer",
	"miles":  "mile",
	"mi":     "mile",
	"feet":   "foot",
	"ft":     "foot",
	"inch":   "inch",
	"in":     "inch",
	"litres": "liter",
	"liters": "liter",
	"ml":     "millilitre",
	"fl oz":  "fluid ounce",
	"oz":     "ounce",
	"kg":     "kilogram",
	"g":      "gram",
	"lbs":    "pound",
	"lb":     "pound",
}

// Aliases returns a copy of the alias table.
func Aliases() map[string]string {
	out := make(map[string]string, len(aliasTable))
	for k, v := range aliasTable {
		out[k] = v
	}
	return out
}

// Normalize trims and lower-cases a user-supplied unit token and replaces it
// with its canonical name when it is a known alias. Unknown tokens are
// returned trimmed and lower-cased; validity is decided downstream.
func Normalize(token string) string {
	unit := lower(strings.TrimSpace(token))
	if canonical, ok := aliasTable[unit]; ok {
		return canonical
	}
	return unit
}

// lower applies Unicode lower-casing. A Caser is stateful, so each call gets
// its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// fold applies Unicode case folding for case-insensitive comparisons.
func fold(s string) string {
	return cases.Fold().String(s)
}
