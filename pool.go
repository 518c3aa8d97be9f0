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

import "sync"

// planeScratch holds the O(m) working vectors the Gotoh recurrence
// needs per call: the previous row of S, the row being built, and the
// D plane (indexed by column, updated in place row to row since D(i,j)
// only ever depends on D(i-1,j), never on a neighboring column of the
// same row).
type planeScratch struct {
	prevS []int64
	curS  []int64
	dRow  []int64
}

var planeScratchPool = sync.Pool{
	New: func() any { return &planeScratch{} },
}

// getPlaneScratch fetches (or allocates) a planeScratch sized for a
// query of length m, i.e. m+1 columns.
func getPlaneScratch(m int) *planeScratch {
	s := planeScratchPool.Get().(*planeScratch)
	s.prevS = growInt64(s.prevS, m+1)
	s.curS = growInt64(s.curS, m+1)
	s.dRow = growInt64(s.dRow, m+1)
	return s
}

// putPlaneScratch returns a planeScratch to the pool.
func putPlaneScratch(s *planeScratch) {
	planeScratchPool.Put(s)
}

func growInt64(buf []int64, n int) []int64 {
	if cap(buf) >= n {
		return buf[:n]
	}
	newCap := cap(buf)
	if newCap == 0 {
		newCap = n
	}
	for newCap < n {
		newCap *= 2
	}
	return make([]int64, n, newCap)
}

// tracebackPool pools the []byte flag matrix used by the full-alignment
// kernels, one flag byte per (i, j) cell, laid out row-major as a
// single contiguous block.
var tracebackPool = sync.Pool{
	New: func() any { return new([]byte) },
}

// getTracebackMatrix fetches (or allocates) a zeroed traceback matrix
// with room for `size` bytes ((n+1)*(m+1)).
func getTracebackMatrix(size int) []byte {
	p := tracebackPool.Get().(*[]byte)
	buf := *p
	if cap(buf) < size {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
		for i := range buf {
			buf[i] = 0
		}
	}
	*p = buf
	return buf
}

// putTracebackMatrix returns a traceback matrix to the pool.
func putTracebackMatrix(buf []byte) {
	tracebackPool.Put(&buf)
}
