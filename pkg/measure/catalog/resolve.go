package catalog

// CategoryOf returns the category a unit name is listed under.
// The input is lower-cased and compared exactly against each category's
// list in declaration order; ok is false when no category lists it.
// Units the engine could parse but the catalog does not list verbatim are
// never resolved.
func CategoryOf(unit string) (c Category, ok bool) {
	unit = lower(unit)
	for _, e := range unitCatalog {
		for _, u := range e.units {
			if lower(u) == unit {
				return e.category, true
			}
		}
	}
	return "", false
}
