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
	"fmt"
	"io"
)

// Cell glyphs written by DumpTraceback: the primary direction
// character, followed by '+' when the cell's gap plane was reached by
// extending rather than opening.
const (
	glyphNone  = '.'
	glyphMatch = 'M'
	glyphDel   = 'D'
	glyphIns   = 'I'
)

// DumpTraceback recomputes the Gotoh traceback matrix for (ref, query,
// scoring, mode) and writes a plain-text grid of it to w: one cell per
// (i, j), showing the preferred direction and, where relevant, whether
// that plane continues an existing gap. This recomputes the DP rather
// than reusing the matrix of an earlier Align call, since callers use
// it for offline debugging, not on the hot alignment path.
func DumpTraceback(w io.Writer, ref, query []byte, scoring ScoringParams, mode Mode) error {
	n, m := len(ref), len(query)
	_, tb, _, _ := gotohPlanes(ref, query, scoring, mode, true)
	defer putTracebackMatrix(tb)

	if _, err := fmt.Fprintf(w, "    "); err != nil {
		return err
	}
	for j := 0; j <= m; j++ {
		if _, err := fmt.Fprintf(w, "%3d", j); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for i := 0; i <= n; i++ {
		if _, err := fmt.Fprintf(w, "%3d ", i); err != nil {
			return err
		}
		for j := 0; j <= m; j++ {
			flag := tb[i*(m+1)+j]
			glyph := glyphNone
			switch {
			case flag&traceMatch != 0:
				glyph = glyphMatch
			case flag&traceDel != 0:
				glyph = glyphDel
			case flag&traceIns != 0:
				glyph = glyphIns
			}
			cont := byte(' ')
			if (glyph == glyphDel && flag&traceNextDel != 0) || (glyph == glyphIns && flag&traceNextIns != 0) {
				cont = '+'
			}
			if _, err := fmt.Fprintf(w, " %c%c", glyph, cont); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
