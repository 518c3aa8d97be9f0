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

import (
	"bytes"

	"github.com/pkg/errors"
)

// RenderAlignment renders the three parallel rows of an alignment: the
// query row, a middle row marking '|' for match / '.' for mismatch /
// ' ' for gap, and the reference row. SOFT_CLIP, HARD_CLIP and PADDING
// runs are skipped; they carry no aligned columns. Fails with
// ErrEmptySequence if a.Cigar is nil (a score-only Alignment has no
// cigar to render), or ErrLengthMismatch if the cigar consumes past
// the end of a.Ref or a.Query.
func RenderAlignment(a *Alignment) (query, mid, ref []byte, err error) {
	if a.Cigar == nil {
		return nil, nil, nil, errors.Wrap(ErrEmptySequence, "render: alignment has no cigar")
	}

	var refLine, midLine, queryLine bytes.Buffer
	ri, qi := a.RefStart, a.QueryStart

	for _, w := range a.Cigar.words {
		code, n := decodeWord(w)
		op := registryByCode[code]

		if op.ConsumesRef && ri+int(n) > len(a.Ref) {
			return nil, nil, nil, errors.Wrapf(ErrLengthMismatch, "render: run %s consumes past end of reference (need %d, have %d)", op.Name, ri+int(n), len(a.Ref))
		}
		if op.ConsumesRead && qi+int(n) > len(a.Query) {
			return nil, nil, nil, errors.Wrapf(ErrLengthMismatch, "render: run %s consumes past end of query (need %d, have %d)", op.Name, qi+int(n), len(a.Query))
		}

		switch op {
		case OpMatch, OpSeqMatch, OpSeqMismatch:
			for k := uint32(0); k < n; k++ {
				rb, qb := a.Ref[ri], a.Query[qi]
				refLine.WriteByte(rb)
				queryLine.WriteByte(qb)
				if rb == qb {
					midLine.WriteByte('|')
				} else {
					midLine.WriteByte('.')
				}
				ri++
				qi++
			}
		case OpDeletion, OpSkipped:
			for k := uint32(0); k < n; k++ {
				refLine.WriteByte(a.Ref[ri])
				queryLine.WriteByte('-')
				midLine.WriteByte(' ')
				ri++
			}
		case OpInsertion:
			for k := uint32(0); k < n; k++ {
				refLine.WriteByte('-')
				queryLine.WriteByte(a.Query[qi])
				midLine.WriteByte(' ')
				qi++
			}
		default: // SOFT_CLIP, HARD_CLIP, PADDING
			if op.ConsumesRef {
				ri += int(n)
			}
			if op.ConsumesRead {
				qi += int(n)
			}
		}
	}

	return queryLine.Bytes(), midLine.Bytes(), refLine.Bytes(), nil
}
