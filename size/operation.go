/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2022 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package size

import (
	"fmt"
	"math"
)

// MulErr multiplies s in place by m, rounding up. A negative m is treated as
// zero. The result saturates at the maximum representable Size.
func (s *Size) MulErr(m float64) error {
	if m < 0 {
		m = 0
	}

	r := math.Ceil(float64(*s) * m)
	if r > float64(math.MaxUint64) {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: multiplication overflow")
	}

	*s = Size(uint64(r))
	return nil
}

// Mul is MulErr ignoring the error.
func (s *Size) Mul(m float64) {
	_ = s.MulErr(m)
}

// DivErr divides s in place by d, rounding up. d must be strictly positive.
func (s *Size) DivErr(d float64) error {
	if d <= 0 {
		return fmt.Errorf("size: invalid diviser %v", d)
	}

	r := math.Ceil(float64(*s) / d)
	if r > float64(math.MaxUint64) {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: division overflow")
	}

	*s = Size(uint64(r))
	return nil
}

// Div is DivErr ignoring the error.
func (s *Size) Div(d float64) {
	_ = s.DivErr(d)
}

// AddErr adds v to s in place, saturating at the maximum representable Size.
func (s *Size) AddErr(v uint64) error {
	r := uint64(*s) + v
	if r < uint64(*s) {
		*s = Size(math.MaxUint64)
		return fmt.Errorf("size: addition overflow")
	}

	*s = Size(r)
	return nil
}

// Add is AddErr ignoring the error.
func (s *Size) Add(v uint64) {
	_ = s.AddErr(v)
}

// SubErr subtracts v from s in place, clamping to zero when v exceeds s.
func (s *Size) SubErr(v uint64) error {
	if v > uint64(*s) {
		*s = SizeNul
		return fmt.Errorf("size: invalid substractor %d", v)
	}

	*s -= Size(v)
	return nil
}

// Sub is SubErr ignoring the error.
func (s *Size) Sub(v uint64) {
	_ = s.SubErr(v)
}
