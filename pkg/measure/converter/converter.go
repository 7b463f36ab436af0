// Package converter turns conversion requests into displayable messages.
//
// Two entry points exist. Interpret handles a free-text query: it parses the
// query, normalizes both unit tokens, checks that the catalog lists both in
// the same category and only then asks the engine. ConvertUnits handles an
// explicit selection of category, units and quantity and goes straight to
// the engine once the selection itself is valid.
//
// Neither entry point returns a Go error: every failure becomes a Message
// carrying a coded error from the errors package.
package converter

import (
	stderrors "errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/sambeau/measure/pkg/measure/catalog"
	"github.com/sambeau/measure/pkg/measure/engine"
	"github.com/sambeau/measure/pkg/measure/errors"
	"github.com/sambeau/measure/pkg/measure/query"
)

// Engine converts a magnitude between two named units.
type Engine interface {
	Convert(magnitude float64, from, to string) engine.Result
}

// Settings control how messages are rendered.
type Settings struct {
	Precision int  // decimal places in converted values
	Symbols   bool // prefix status symbols when rendering
}

// DefaultSettings returns six decimal places with status symbols.
func DefaultSettings() Settings {
	return Settings{Precision: 6, Symbols: true}
}

// Converter interprets queries and selections against an engine. It is safe
// for concurrent use; settings may be swapped while requests are served.
type Converter struct {
	engine Engine

	mu       sync.RWMutex
	settings Settings
}

// New creates a Converter. A nil engine uses engine.Default.
func New(e Engine, s Settings) *Converter {
	if e == nil {
		e = engine.Default
	}
	return &Converter{engine: e, settings: s}
}

// Default is the converter used by the package-level functions.
var Default = New(engine.Default, DefaultSettings())

// Interpret converts a free-text query using the Default converter.
func Interpret(q string) Message {
	return Default.Interpret(q)
}

// ConvertUnits converts an explicit selection using the Default converter.
func ConvertUnits(quantity float64, category, from, to string) Message {
	return Default.ConvertUnits(quantity, category, from, to)
}

// Settings returns the current settings.
func (c *Converter) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// SetSettings replaces the settings used for subsequent requests.
func (c *Converter) SetSettings(s Settings) {
	c.mu.Lock()
	c.settings = s
	c.mu.Unlock()
}

// Interpret parses a query of the form "convert <number> <unit> to <unit>",
// validates both units against the catalog and converts.
func (c *Converter) Interpret(q string) Message {
	s := c.Settings()

	req, err := query.Parse(strings.ToLower(q))
	if err != nil {
		return failure(errors.New(errors.CodeInvalidFormat, nil), s)
	}

	from := catalog.Normalize(req.From)
	to := catalog.Normalize(req.To)

	fromCategory, fromOK := catalog.CategoryOf(from)
	toCategory, toOK := catalog.CategoryOf(to)
	if !fromOK || !toOK {
		var unknown []string
		if !fromOK {
			unknown = append(unknown, from)
		}
		if !toOK {
			unknown = append(unknown, to)
		}
		return failure(errors.NewInvalidUnit(unknown, queryCandidates()), s)
	}

	if fromCategory != toCategory {
		return failure(mismatch(fromCategory, toCategory), s)
	}

	return c.convert(req.Magnitude, from, to, s)
}

// ConvertUnits converts quantity between two units of a category. The
// category must be in the catalog and both units must be listed under it;
// the units are passed to the engine exactly as given.
func (c *Converter) ConvertUnits(quantity float64, category, from, to string) Message {
	s := c.Settings()

	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
		return failure(errors.New(errors.CodeInvalidQuantity, map[string]any{"Quantity": quantity}), s)
	}

	cat, ok := catalog.LookupCategory(category)
	if !ok {
		return failure(errors.New(errors.CodeUnknownCategory, map[string]any{
			"Category":  category,
			"Available": categoryList(),
		}), s)
	}

	var unknown []string
	for _, u := range []string{from, to} {
		if !catalog.Contains(cat, u) {
			unknown = append(unknown, u)
		}
	}
	if len(unknown) > 0 {
		return failure(errors.NewInvalidUnit(unknown, catalog.Units(cat)), s)
	}

	return c.convert(quantity, from, to, s)
}

// convert asks the engine and maps each outcome to a message.
func (c *Converter) convert(magnitude float64, from, to string, s Settings) Message {
	r := c.engine.Convert(magnitude, from, to)

	switch r.Outcome {
	case engine.OK:
		return success(magnitude, from, r.Quantity, to, s)
	case engine.UndefinedUnit:
		var unknown []string
		var undef *engine.UndefinedUnitError
		if stderrors.As(r.Err, &undef) {
			unknown = append(unknown, undef.Name)
		}
		return failure(errors.NewInvalidUnit(unknown, queryCandidates()), s)
	case engine.Dimensionality:
		return failure(errors.New(errors.CodeCategoryMismatch, map[string]any{"Detail": errDetail(r.Err)}), s)
	case engine.Other:
		return failure(errors.New(errors.CodeEngine, map[string]any{"Detail": errDetail(r.Err)}), s)
	default:
		return failure(errors.New(errors.CodeEngine, map[string]any{"Detail": "unexpected outcome " + r.Outcome.String()}), s)
	}
}

func mismatch(from, to catalog.Category) *errors.Error {
	return errors.New(errors.CodeCategoryMismatch, map[string]any{
		"From": string(from),
		"To":   string(to),
	})
}

func errDetail(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// queryCandidates lists every token a query may use, for suggestions.
func queryCandidates() []string {
	aliases := catalog.Aliases()
	keys := make([]string, 0, len(aliases))
	for alias := range aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	return append(catalog.AllUnits(), keys...)
}

func categoryList() string {
	cats := catalog.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
