// Package errors provides structured error types for unit conversion.
//
// Every failure a user can see is described by an entry in ErrorCatalog. An
// Error carries the entry's code and class, the rendered message and any
// hints, so callers can branch on the class while displays only need the
// text.
package errors

import (
	"bytes"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassFormat    ErrorClass = "format"    // Query or input does not parse
	ClassUndefined ErrorClass = "undefined" // Unit or category not recognized
	ClassCategory  ErrorClass = "category"  // Units from different families
	ClassEngine    ErrorClass = "engine"    // Any other conversion failure
)

// Error codes
const (
	CodeInvalidFormat    = "QUERY-0001"
	CodeInvalidUnit      = "UNIT-0001"
	CodeCategoryMismatch = "UNIT-0002"
	CodeEngine           = "ENGINE-0001"
	CodeUnknownCategory  = "CATEGORY-0001"
	CodeInvalidQuantity  = "QUANTITY-0001"
)

// Error represents any user-facing conversion failure.
type Error struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.String()
}

// String returns the message followed by any hints, one per line.
func (e *Error) String() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// Is matches errors by code, so errors.Is(err, errors.New(CodeInvalidUnit, nil))
// holds for any invalid-unit error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	CodeInvalidFormat: {
		Class:    ClassFormat,
		Template: "Invalid format! Please use: Convert 10 km to miles.",
	},
	CodeInvalidUnit: {
		Class:    ClassUndefined,
		Template: "One or both units are invalid! Did you mean something else?",
	},
	CodeCategoryMismatch: {
		Class:    ClassCategory,
		Template: "Units are not from the same category! Try again.",
	},
	CodeEngine: {
		Class:    ClassEngine,
		Template: "Error: {{.Detail}}",
	},
	CodeUnknownCategory: {
		Class:    ClassUndefined,
		Template: "Unknown category '{{.Category}}'.",
		Hints:    []string{"Categories: {{.Available}}"},
	},
	CodeInvalidQuantity: {
		Class:    ClassFormat,
		Template: "Quantity must be a non-negative number, got {{.Quantity}}.",
	},
}

// New creates an Error from the catalog.
func New(code string, data map[string]any) *Error {
	def, ok := ErrorCatalog[code]
	if !ok {
		// Unknown code - create a generic engine error
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &Error{
			Class:   ClassEngine,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &Error{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewInvalidUnit creates an invalid-unit error, adding a "Did you mean?" hint
// for each unit that has a close match among the candidates.
func NewInvalidUnit(units []string, candidates []string) *Error {
	err := New(CodeInvalidUnit, map[string]any{"Units": units})
	for _, u := range units {
		if suggestion := FindClosestMatch(u, candidates); suggestion != "" {
			err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
		}
	}
	return err
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// threshold returns the maximum edit distance worth suggesting for input.
// Short words (1-3): 1 edit, medium (4-6): 2, longer: 3.
func threshold(input string) int {
	switch {
	case len(input) >= 7:
		return 3
	case len(input) >= 4:
		return 2
	default:
		return 1
	}
}

// FindClosestMatch returns the candidate closest to input, or "" when the
// best candidate is an exact match or too far away.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= 0 || bestDistance > threshold(input) {
		return ""
	}

	return bestMatch
}

// FindTopMatches returns up to n candidates within the edit threshold,
// closest first.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	type fuzzyMatch struct {
		value    string
		distance int
	}

	inputLower := strings.ToLower(input)
	var matches []fuzzyMatch
	for _, candidate := range candidates {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if dist > 0 {
			matches = append(matches, fuzzyMatch{value: candidate, distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	limit := threshold(input)
	var result []string
	for i := 0; i < len(matches) && len(result) < n; i++ {
		if matches[i].distance <= limit {
			result = append(result, matches[i].value)
		}
	}
	return result
}
