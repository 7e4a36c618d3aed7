package render

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DefaultLocale = "nb"

var ErrNotANumber = errors.New("not a number")

// Renderer turns projection results into locale formatted texts.
// It holds no mutable state and can be shared between goroutines.
type Renderer struct {
	locale  language.Tag
	printer *message.Printer
}

func NewRenderer(locale string) (*Renderer, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	return &Renderer{
		locale:  tag,
		printer: message.NewPrinter(tag),
	}, nil
}

func (r *Renderer) Locale() string {
	return r.locale.String()
}

// FormatSteps rounds half up to whole steps and groups digits.
func (r *Renderer) FormatSteps(steps float64) string {
	return r.printer.Sprint(number.Decimal(
		math.Floor(steps+0.5),
		number.MaxFractionDigits(0),
	))
}

// FormatKilometres uses fewer decimals the longer the distance is.
func (r *Renderer) FormatKilometres(km float64) string {
	maxDecimals := 2
	switch {
	case km >= 1000:
		maxDecimals = 0
	case km >= 100:
		maxDecimals = 1
	}

	return r.printer.Sprint(number.Decimal(km, number.MaxFractionDigits(maxDecimals)))
}

// ParseNumber reads user typed numbers like "10 000" or "8,000".
// All whitespace and commas are dropped before parsing.
func ParseNumber(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ',' {
			return -1
		}
		return r
	}, s)

	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty value", ErrNotANumber)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}

	return v, nil
}
