package debugging

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrDivisionByZero is returned by Divide when the divisor is zero.
var ErrDivisionByZero = errors.New("Cannot divide by zero")

// Divide returns numerator / denominator using floating-point division.
// A zero denominator returns ErrDivisionByZero and no quotient.
func Divide(numerator, denominator int) (float64, error) {
	if denominator == 0 {
		return 0, ErrDivisionByZero
	}
	return float64(numerator) / float64(denominator), nil
}

// Quotient is the outcome of dividing a fixed numerator by one divisor.
type Quotient struct {
	Numerator int
	Divisor   int
	Value     float64
	Err       error
}

// String renders the quotient the way the division demo prints it, e.g.
// "1000 / 50 = 20.0" or "1000 / 0 = Error: Cannot divide by zero".
func (q Quotient) String() string {
	if q.Err != nil {
		return fmt.Sprintf("%d / %d = Error: %s", q.Numerator, q.Divisor, q.Err.Error())
	}
	return fmt.Sprintf("%d / %d = %s", q.Numerator, q.Divisor, formatDouble(q.Value))
}

// DivideAll divides numerator by every divisor in order. A failing divisor is
// recorded in its Quotient and does not stop the remaining divisions.
func DivideAll(numerator int, divisors []int) []Quotient {
	out := make([]Quotient, 0, len(divisors))
	for _, d := range divisors {
		v, err := Divide(numerator, d)
		out = append(out, Quotient{Numerator: numerator, Divisor: d, Value: v, Err: err})
	}
	return out
}

// ReportDivisions writes one line per divisor.
func ReportDivisions(w io.Writer, numerator int, divisors []int) error {
	for _, q := range DivideAll(numerator, divisors) {
		if _, err := fmt.Fprintln(w, q.String()); err != nil {
			return err
		}
	}
	return nil
}

// formatDouble renders v like the JVM prints a double: plain decimal with at
// least one fractional digit for 1e-3 <= |v| < 1e7, otherwise computerized
// scientific notation such as 2.147483647E9 or 1.0E-4.
func formatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		return withFraction(strconv.FormatFloat(v, 'f', -1, 64))
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	n, _ := strconv.Atoi(exp)
	return withFraction(mantissa) + "E" + strconv.Itoa(n)
}

func withFraction(s string) string {
	if strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}
