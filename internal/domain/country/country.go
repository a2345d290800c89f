// Package country maps report country names onto the names used by map lookups.
package country

// canonicalNames maps report-native names to the canonical map name.
// Names absent from the table are already canonical.
var canonicalNames = map[string]string{
	"United States":            "United States of America",
	"United Kingdom":           "United Kingdom",
	"Czech Republic":           "Czechia",
	"Taiwan Province of China": "Taiwan",
	"Hong Kong S.A.R., China":  "Hong Kong",
	"Trinidad and Tobago":      "Trinidad and Tobago",
	"Northern Cyprus":          "Cyprus",
	"North Cyprus":             "Cyprus",
	"Somaliland region":        "Somalia",
	"Palestinian Territories":  "Palestine",
	"Ivory Coast":              "Côte d'Ivoire",
}

// Normalize returns the display name (the report name, unchanged) and the
// canonical name used for geographic lookups.
func Normalize(name string) (display, canonical string) {
	if c, ok := canonicalNames[name]; ok {
		return name, c
	}
	return name, name
}

// Canonical returns only the canonical name.
func Canonical(name string) string {
	_, c := Normalize(name)
	return c
}
