// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package align

import "github.com/pkg/errors"

// Sentinel error kinds. Callers use errors.Is to test against these;
// call sites wrap them with errors.Wrapf to name the offending input.
var (
	ErrInvalidScoring       = errors.New("invalid scoring")
	ErrInvalidMode          = errors.New("invalid mode")
	ErrLengthMismatch       = errors.New("length mismatch")
	ErrNotFound             = errors.New("not found")
	ErrInvalidOperatorType  = errors.New("invalid operator type")
	ErrTrailingDigits       = errors.New("trailing digits")
	ErrUnsupportedInverse   = errors.New("unsupported inverse")
	ErrEmptySequence        = errors.New("empty sequence")
	ErrInvalidClip          = errors.New("invalid clip")
	ErrOutOfMemory          = errors.New("out of memory")
	ErrInvalidEditOperation = errors.New("invalid edit operation")
)
