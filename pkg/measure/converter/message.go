package converter

import (
	"strconv"

	"github.com/sambeau/measure/pkg/measure/engine"
	"github.com/sambeau/measure/pkg/measure/errors"
)

// Status symbols prefixed to displayed messages.
const (
	SymbolSuccess = "✅"
	SymbolWarning = "⚠️"
	SymbolInvalid = "❌"
)

// Conversion describes a successful conversion.
type Conversion struct {
	Magnitude float64 `json:"magnitude"`
	From      string  `json:"from"`
	Value     float64 `json:"value"`
	To        string  `json:"to"`
	Formatted string  `json:"formatted"` // Value with the configured precision
}

// Message is the displayable outcome of one request. Exactly one of
// Conversion and Err is set.
type Message struct {
	Text       string
	Conversion *Conversion
	Err        *errors.Error
	symbols    bool
}

// OK reports whether the request converted successfully.
func (m Message) OK() bool {
	return m.Err == nil
}

// Code returns the error code, or "" on success.
func (m Message) Code() string {
	if m.Err == nil {
		return ""
	}
	return m.Err.Code
}

// Symbol returns the status symbol for the message.
func (m Message) Symbol() string {
	switch {
	case m.Err == nil:
		return SymbolSuccess
	case m.Err.Code == errors.CodeInvalidFormat:
		return SymbolInvalid
	default:
		return SymbolWarning
	}
}

// String renders the message for display, with its status symbol unless
// symbols are disabled.
func (m Message) String() string {
	if !m.symbols {
		return m.Text
	}
	return m.Symbol() + " " + m.Text
}

// Hints returns any suggestions attached to a failure.
func (m Message) Hints() []string {
	if m.Err == nil {
		return nil
	}
	return m.Err.Hints
}

func success(magnitude float64, from string, q engine.Quantity, to string, s Settings) Message {
	value := q.Magnitude
	formatted := q.Format(s.Precision)
	return Message{
		Text: formatMagnitude(magnitude) + " " + from + " = " + formatted + " " + to,
		Conversion: &Conversion{
			Magnitude: magnitude,
			From:      from,
			Value:     value,
			To:        to,
			Formatted: formatted,
		},
		symbols: s.Symbols,
	}
}

func failure(err *errors.Error, s Settings) Message {
	return Message{Text: err.Message, Err: err, symbols: s.Symbols}
}

// formatMagnitude prints the requested quantity without trailing zeros.
func formatMagnitude(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
