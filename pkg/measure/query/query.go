// Package query parses free-text conversion requests such as
// "Convert 10 km to miles".
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoMatch is returned when a query does not have the shape
// "convert <number> <unit> to|in <unit>".
var ErrNoMatch = errors.New("query does not match 'convert <number> <unit> to <unit>'")

// Request is a parsed conversion request. Units are the raw captured text,
// trimmed but not normalized.
type Request struct {
	Magnitude float64
	From      string
	To        string
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s -> %s", strconv.FormatFloat(r.Magnitude, 'f', -1, 64), r.From, r.To)
}

// queryPattern matches the request anywhere in the input. The source unit is
// lazy and the keyword must stand alone, so "feet in inches" splits at the
// first free-standing "in"; the target unit runs to the end of the letters.
var queryPattern = regexp.MustCompile(`(?i)convert\s*(\d+(?:\.\d+)?)\s*([a-z][a-z ]*?)\s+(?:to|in)\s+([a-z][a-z ]*)`)

// Parse extracts the magnitude and both unit tokens from a query.
func Parse(q string) (Request, error) {
	m := queryPattern.FindStringSubmatch(q)
	if m == nil {
		return Request{}, ErrNoMatch
	}

	magnitude, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		// Digits always parse; only absurd lengths overflow.
		return Request{}, fmt.Errorf("%w: magnitude %q out of range", ErrNoMatch, m[1])
	}

	return Request{
		Magnitude: magnitude,
		From:      strings.TrimSpace(m[2]),
		To:        strings.TrimSpace(m[3]),
	}, nil
}
