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

// ToExtendedCigar expands every MATCH run of c into adjacent
// SEQ_MATCH / SEQ_MISMATCH runs by comparing ref[refStart:] against
// query[queryStart:] byte for byte, coalescing consecutive runs of the
// same verdict. Every other operation is copied unchanged. Fails with
// ErrLengthMismatch if a run consumes more ref or query bytes than the
// supplied slices contain from the given offsets.
func ToExtendedCigar(c *CigarSequence, ref, query []byte, refStart, queryStart int) (*CigarSequence, error) {
	out := &CigarSequence{}
	ri, qi := refStart, queryStart

	for _, w := range c.words {
		code, n := decodeWord(w)
		op := registryByCode[code]

		if op != OpMatch {
			if op.ConsumesRef {
				if ri+int(n) > len(ref) {
					return nil, errors.Wrapf(ErrLengthMismatch, "run %s consumes past end of reference (need %d, have %d)", op.Name, ri+int(n), len(ref))
				}
				ri += int(n)
			}
			if op.ConsumesRead {
				if qi+int(n) > len(query) {
					return nil, errors.Wrapf(ErrLengthMismatch, "run %s consumes past end of query (need %d, have %d)", op.Name, qi+int(n), len(query))
				}
				qi += int(n)
			}
			if err := out.appendRaw(op.BinCode, n); err != nil {
				return nil, err
			}
			continue
		}

		if ri+int(n) > len(ref) {
			return nil, errors.Wrapf(ErrLengthMismatch, "match run consumes past end of reference (need %d, have %d)", ri+int(n), len(ref))
		}
		if qi+int(n) > len(query) {
			return nil, errors.Wrapf(ErrLengthMismatch, "match run consumes past end of query (need %d, have %d)", qi+int(n), len(query))
		}
		for k := uint32(0); k < n; k++ {
			verdict := OpSeqMatch
			if ref[ri] != query[qi] {
				verdict = OpSeqMismatch
			}
			if err := out.appendRaw(verdict.BinCode, 1); err != nil {
				return nil, err
			}
			ri++
			qi++
		}
	}

	return out, nil
}
