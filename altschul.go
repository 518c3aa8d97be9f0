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

// Altschul-Erickson traceback flags: seven bits (A..G) recording, for
// each cell, which of the three planes achieved S(i,j) (A/B/C) and,
// separately for each gap plane, whether it was achieved by opening a
// fresh gap and/or by extending an existing one (D/E for deletion,
// F/G for insertion). Recording both open and extend as independent
// bits — rather than the Gotoh kernel's single "was it extend"
// bit — is what lets the post-pass disambiguate them afterwards.
const (
	aeMatch byte = 1 << iota
	aeDel
	aeIns
	aeDelOpen
	aeDelExt
	aeInsOpen
	aeInsExt
)

// alignAltschulErickson runs the tie-resolving global variant. Its
// score always matches the ordinary Gotoh global kernel; only the
// emitted cigar can differ when the optimal path is not unique.
func alignAltschulErickson(ref, query []byte, scoring ScoringParams, scoreOnly, extendedCigar bool) (*Alignment, error) {
	if scoreOnly {
		score, err := gotohScoreOnly(ref, query, scoring, ModeGlobal)
		if err != nil {
			return nil, err
		}
		return &Alignment{Ref: ref, Query: query, Score: score, ScoreOnly: true}, nil
	}

	n, m := len(ref), len(query)
	tb := getTracebackMatrix((n + 1) * (m + 1))
	defer putTracebackMatrix(tb)

	ps := getPlaneScratch(m)
	defer putPlaneScratch(ps)
	prevS, curS, dRow := ps.prevS, ps.curS, ps.dRow

	for j := 0; j <= m; j++ {
		if j == 0 {
			prevS[j] = 0
		} else {
			prevS[j] = scoring.GapOpen + int64(j-1)*scoring.GapExtend
		}
		dRow[j] = negInfScore
	}

	for i := 1; i <= n; i++ {
		curS[0] = scoring.GapOpen + int64(i-1)*scoring.GapExtend
		insPlane := negInfScore

		for j := 1; j <= m; j++ {
			dOpen := prevS[j] + scoring.GapOpen
			dExt := dRow[j] + scoring.GapExtend
			dVal := dOpen
			if dExt > dVal {
				dVal = dExt
			}
			var flag byte
			if dOpen == dVal {
				flag |= aeDelOpen
			}
			if dExt == dVal {
				flag |= aeDelExt
			}
			dRow[j] = dVal

			iOpen := curS[j-1] + scoring.GapOpen
			iExt := insPlane + scoring.GapExtend
			iVal := iOpen
			if iExt > iVal {
				iVal = iExt
			}
			if iOpen == iVal {
				flag |= aeInsOpen
			}
			if iExt == iVal {
				flag |= aeInsExt
			}
			insPlane = iVal

			var matchScore int64
			if ref[i-1] == query[j-1] {
				matchScore = scoring.Match
			} else {
				matchScore = scoring.Mismatch
			}
			mVal := prevS[j-1] + matchScore

			best := mVal
			if dVal > best {
				best = dVal
			}
			if iVal > best {
				best = iVal
			}
			if mVal == best {
				flag |= aeMatch
			}
			if dVal == best {
				flag |= aeDel
			}
			if iVal == best {
				flag |= aeIns
			}

			curS[j] = best
			tb[i*(m+1)+j] = flag
		}
		prevS, curS = curS, prevS
	}
	score := prevS[m]

	// Post-pass: a gap-continuation bit is redundant whenever the
	// same cell's open bit is also set (a non-continuation path
	// achieves the identical value), so clear it, leaving each gap
	// plane with a single unambiguous predecessor.
	for i := n; i >= 1; i-- {
		for j := m; j >= 1; j-- {
			flag := tb[i*(m+1)+j]
			if flag&aeDelOpen != 0 && flag&aeDelExt != 0 {
				flag &^= aeDelExt
			}
			if flag&aeInsOpen != 0 && flag&aeInsExt != 0 {
				flag &^= aeInsExt
			}
			tb[i*(m+1)+j] = flag
		}
	}

	cigar, startI, startJ, err := tracebackAltschulErickson(tb, ref, query, m, n, extendedCigar)
	if err != nil {
		return nil, err
	}

	return &Alignment{
		Ref: ref, Query: query,
		RefStart: startI, RefStop: n,
		QueryStart: startJ, QueryStop: m,
		Cigar: cigar, Score: score,
	}, nil
}

func tracebackAltschulErickson(tb []byte, ref, query []byte, m, n int, extendedCigar bool) (*CigarSequence, int, int, error) {
	result := &CigarSequence{}

	const (
		planeNone = iota
		planeDel
		planeIns
	)

	i, j := n, m
	pendingPlane := planeNone

	for i > 0 || j > 0 {
		flag := tb[i*(m+1)+j]

		var dir byte
		switch {
		case pendingPlane == planeDel:
			dir = 'D'
		case pendingPlane == planeIns:
			dir = 'I'
		case flag&aeMatch != 0:
			dir = 'M'
		case flag&aeDel != 0:
			dir = 'D'
		case flag&aeIns != 0:
			dir = 'I'
		default:
			dir = 0
		}

		if dir == 0 {
			break
		}

		switch dir {
		case 'M':
			op := opCharForMatch(ref[i-1], query[j-1], extendedCigar)
			if err := result.appendRaw(op.BinCode, 1); err != nil {
				return nil, 0, 0, err
			}
			i--
			j--
			pendingPlane = planeNone
		case 'D':
			if err := result.appendRaw(OpDeletion.BinCode, 1); err != nil {
				return nil, 0, 0, err
			}
			if flag&aeDelExt != 0 {
				pendingPlane = planeDel
			} else {
				pendingPlane = planeNone
			}
			i--
		case 'I':
			if err := result.appendRaw(OpInsertion.BinCode, 1); err != nil {
				return nil, 0, 0, err
			}
			if flag&aeInsExt != 0 {
				pendingPlane = planeIns
			} else {
				pendingPlane = planeNone
			}
			j--
		}
	}

	var err error
	i, j, err = padGlobalRemainder(result, i, j)
	if err != nil {
		return nil, 0, 0, err
	}

	result.Reverse()
	return result, i, j, nil
}
