// Package budget parses free-text budget expressions such as "3-6k₺",
// "40k₺+" or "$500-1000" into numeric ranges.
package budget

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultOpenEndedMultiplier approximates the missing upper bound of an
// open-ended budget ("40k₺+") as a multiple of its floor.
const DefaultOpenEndedMultiplier = 2.0

// MaxAmount is the largest bound a budget can carry. Larger amounts are
// rejected and open-ended ceilings saturate here.
const MaxAmount = math.MaxInt32

var errTooLarge = eris.New("budget: amount too large")

var (
	kRangePattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)k`)
	kSinglePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)k`)
	rangePattern   = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	singlePattern  = regexp.MustCompile(`(\d+)`)
)

// Range is a parsed budget. A nil bound is unbounded.
type Range struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// Parser parses budget expressions with a configurable open-ended policy.
type Parser struct {
	OpenEndedMultiplier float64
}

// NewParser returns a Parser. A non-positive multiplier selects
// DefaultOpenEndedMultiplier.
func NewParser(multiplier float64) *Parser {
	if multiplier <= 0 {
		multiplier = DefaultOpenEndedMultiplier
	}
	return &Parser{OpenEndedMultiplier: multiplier}
}

var defaultParser = NewParser(DefaultOpenEndedMultiplier)

// Parse parses expr with the default policy.
func Parse(expr string) Range {
	return defaultParser.Parse(expr)
}

// Parse tries, in order: "<a>-<b>k", "<a>k+", "<a>k", "<a>-<b>", "<a>+",
// "<a>". The first grammar that matches wins. Currency markers are ignored;
// only the "+" suffix and the "k" thousands marker carry meaning.
func (p *Parser) Parse(expr string) Range {
	if expr == "" {
		return Range{}
	}
	lower := strings.ToLower(expr)
	openEnded := strings.Contains(expr, "+")

	if strings.Contains(lower, "k") {
		if m := kRangePattern.FindStringSubmatch(lower); m != nil {
			lo, errLo := thousands(m[1])
			hi, errHi := thousands(m[2])
			if errLo == nil && errHi == nil {
				return Range{Min: &lo, Max: &hi}
			}
		}
		if m := kSinglePattern.FindStringSubmatch(lower); m != nil {
			if base, err := thousands(m[1]); err == nil {
				return p.single(base, openEnded)
			}
		}
	}

	if m := rangePattern.FindStringSubmatch(expr); m != nil {
		lo, errLo := amount(m[1])
		hi, errHi := amount(m[2])
		if errLo == nil && errHi == nil {
			return Range{Min: &lo, Max: &hi}
		}
	}

	if m := singlePattern.FindStringSubmatch(expr); m != nil {
		if v, err := amount(m[1]); err == nil {
			return p.single(v, openEnded)
		}
	}

	return Range{}
}

func (p *Parser) single(v int, openEnded bool) Range {
	if !openEnded {
		return Range{Max: &v}
	}
	hi := MaxAmount
	if f := math.Round(float64(v) * p.OpenEndedMultiplier); f < MaxAmount {
		hi = int(f)
	}
	return Range{Min: &v, Max: &hi}
}

// thousands converts a "k" amount ("2.5") to units (2500).
func thousands(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	units := math.Round(f * 1000)
	if units > MaxAmount {
		return 0, errTooLarge
	}
	return int(units), nil
}

// amount parses a plain integer amount no larger than MaxAmount.
func amount(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v > MaxAmount {
		return 0, errTooLarge
	}
	return int(v), nil
}
