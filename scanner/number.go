package scanner

import (
	"math"
	"strconv"
)

// Number is the value of a CSS <number-token>. Integers are kept exact.
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
}

// Float64 returns the number as a float regardless of its type.
func (n Number) Float64() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// String formats the number using the shortest representation that parses
// back to the same value.
func (n Number) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

// ParseNumberString parses the longest number prefix of s.
func ParseNumberString(s string) Number {
	return ParseNumber([]rune(s), -1)
}

// ParseNumber parses the longest valid number prefix of src, looking at no
// more than limit code points. A negative limit means the whole slice.
//
// A prefix without any digits parses to the integer zero.
func ParseNumber(src []rune, limit int) Number {
	if limit >= 0 && limit < len(src) {
		src = src[:limit]
	}
	at := func(i int) rune {
		if i < len(src) {
			return src[i]
		}
		return EOF
	}

	i, sign := 0, int64(1)
	if ch := at(0); ch == '+' || ch == '-' {
		if ch == '-' {
			sign = -1
		}
		i++
	}

	// Integer part. Overflowing digits are still tracked as a float.
	var (
		ip       int64
		ipf      float64
		overflow bool
	)
	for ; IsDigit(at(i)); i++ {
		d := int64(at(i) - '0')
		ipf = ipf*10 + float64(d)
		if !overflow && ip > (math.MaxInt64-d)/10 {
			overflow = true
		}
		ip = ip*10 + d
	}

	// Fractional part.
	var (
		frac       float64
		fracDigits int
	)
	if at(i) == '.' && IsDigit(at(i+1)) {
		for i++; IsDigit(at(i)); i++ {
			frac = frac*10 + float64(at(i)-'0')
			fracDigits++
		}
	}

	// Exponent.
	var (
		exp    int
		expNeg bool
	)
	if ch := at(i); ch == 'e' || ch == 'E' {
		j := i + 1
		if ch := at(j); ch == '+' || ch == '-' {
			expNeg = ch == '-'
			j++
		}
		if IsDigit(at(j)) {
			for ; IsDigit(at(j)); j++ {
				if exp < 100000 {
					exp = exp*10 + int(at(j)-'0')
				}
			}
		} else {
			expNeg = false
		}
	}

	if fracDigits == 0 && !(expNeg && exp > 0) && !overflow {
		if v, ok := scaleInt(ip, exp); ok {
			return Number{Int: sign * v}
		}
	}

	v := ipf + frac/math.Pow10(fracDigits)
	if expNeg {
		v /= math.Pow10(exp)
	} else {
		v *= math.Pow10(exp)
	}
	return Number{Float: float64(sign) * v, IsFloat: true}
}

// scaleInt returns v * 10^exp if it fits in an int64.
func scaleInt(v int64, exp int) (int64, bool) {
	for ; exp > 0; exp-- {
		if v > math.MaxInt64/10 {
			return 0, false
		}
		v *= 10
	}
	return v, true
}
