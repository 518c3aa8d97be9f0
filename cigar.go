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
	"encoding/binary"
	"strconv"

	"github.com/pkg/errors"
)

// minCigarCapacity is the smallest backing-array capacity a
// CigarSequence grows to on its first append.
const minCigarCapacity = 4

// CigarSequence is a mutable run-length container of (operation, count)
// pairs backed by a dense array of packed 32-bit words: count in the
// upper 28 bits, bin_code in the lower 4, matching bíogo's CigarOp
// packing and the wire layout of the ecosystem's aligned-read binary
// CIGAR format. Construction, Append and Extend coalesce adjacent runs
// that share an operation code; ConvertNToS and Slice with a step other
// than ±1 can leave such neighbours uncoalesced.
type CigarSequence struct {
	words []uint32
}

func decodeWord(w uint32) (code uint8, n uint32) {
	return uint8(w & 0xF), w >> 4
}

// NewCigarSequence returns an empty CigarSequence.
func NewCigarSequence() *CigarSequence {
	return &CigarSequence{}
}

// NewCigarSequenceFromSequence copies another CigarSequence.
func NewCigarSequenceFromSequence(other *CigarSequence) *CigarSequence {
	words := make([]uint32, len(other.words))
	copy(words, other.words)
	return &CigarSequence{words: words}
}

// ParseCigarString parses a CIGAR string such as "150M3I5D". Digits
// accumulate as a decimal count; a bare operation character with no
// preceding digits means count = 1. Trailing digits with no
// terminating operation fail with ErrTrailingDigits.
func ParseCigarString(s []byte) (*CigarSequence, error) {
	c := &CigarSequence{}
	var n uint32
	var sawDigit bool
	for _, b := range s {
		if b >= '0' && b <= '9' {
			n = n*10 + uint32(b-'0')
			sawDigit = true
			continue
		}
		op, err := LookupChar(b)
		if err != nil {
			return nil, err
		}
		count := n
		if !sawDigit {
			count = 1
		}
		if err := c.appendRaw(op.BinCode, count); err != nil {
			return nil, err
		}
		n, sawDigit = 0, false
	}
	if sawDigit {
		return nil, errors.Wrapf(ErrTrailingDigits, "cigar string %q ends with digits and no operation", s)
	}
	return c, nil
}

// NewCigarSequenceFromBinary builds a CigarSequence from raw packed
// words, appended in order: consecutive words sharing a code are
// coalesced into one run, and zero-count words are dropped.
func NewCigarSequenceFromBinary(words []uint32) (*CigarSequence, error) {
	c := &CigarSequence{}
	for _, w := range words {
		code, n := decodeWord(w)
		if err := c.appendRaw(code, n); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewCigarSequenceFromBinaryBytes decodes a little-endian packed-word
// buffer.
func NewCigarSequenceFromBinaryBytes(b []byte) (*CigarSequence, error) {
	if len(b)%4 != 0 {
		return nil, errors.Wrapf(ErrLengthMismatch, "binary cigar buffer length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return NewCigarSequenceFromBinary(words)
}

// BinaryWordsProvider is implemented by a host aligned-read wrapper
// that exposes its CIGAR as packed words without this module needing
// to know the host's own record format.
type BinaryWordsProvider interface {
	RawCigarWords() []uint32
}

// NewCigarSequenceFromWordsProvider adapts a host aligned-read wrapper.
func NewCigarSequenceFromWordsProvider(p BinaryWordsProvider) (*CigarSequence, error) {
	return NewCigarSequenceFromBinary(p.RawCigarWords())
}

// OpIdentifierPair is one element of the pair-sequence construction
// shape. Op is decoded polymorphically: a *CigarOp, a byte/[]byte/string
// operation character, or an integer bin_code.
type OpIdentifierPair struct {
	Op any
	N  uint32
}

// NewCigarSequenceFromPairs builds a CigarSequence from (op, count)
// pairs, decoding each op identifier polymorphically.
func NewCigarSequenceFromPairs(pairs []OpIdentifierPair) (*CigarSequence, error) {
	c := &CigarSequence{}
	for _, p := range pairs {
		if err := c.Append(p.Op, p.N); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ensureCapacity grows the backing array by doubling (minimum
// minCigarCapacity) so it holds at least `add` more words. Allocation
// failure (simulated via recover, since Go's allocator panics rather
// than returning an error) surfaces as ErrOutOfMemory, leaving the
// sequence in its pre-grow state.
func (c *CigarSequence) ensureCapacity(add int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrOutOfMemory, "growing cigar backing array: %v", r)
		}
	}()
	need := len(c.words) + add
	if need <= cap(c.words) {
		return nil
	}
	newCap := cap(c.words)
	if newCap < minCigarCapacity {
		newCap = minCigarCapacity
	}
	for newCap < need {
		newCap *= 2
	}
	newWords := make([]uint32, len(c.words), newCap)
	copy(newWords, c.words)
	c.words = newWords
	return nil
}

// appendRaw is the hot-path append used internally (traceback,
// binary/pair constructors) once the bin_code is already known.
func (c *CigarSequence) appendRaw(code uint8, n uint32) error {
	if n == 0 {
		return nil
	}
	if l := len(c.words); l > 0 {
		last := c.words[l-1]
		if uint8(last&0xF) == code {
			c.words[l-1] = ((last>>4)+n)<<4 | uint32(code)
			return nil
		}
	}
	if err := c.ensureCapacity(1); err != nil {
		return err
	}
	c.words = append(c.words, (n<<4)|uint32(code))
	return nil
}

// Append adds a run, coalescing into the tail run when its code
// matches. n == 0 is a no-op. id is decoded polymorphically (see
// OpIdentifierPair).
func (c *CigarSequence) Append(id any, n uint32) error {
	op, err := resolveOp(id)
	if err != nil {
		return err
	}
	return c.appendRaw(op.BinCode, n)
}

// Extend appends every run of other, in order.
func (c *CigarSequence) Extend(other *CigarSequence) error {
	for _, w := range other.words {
		code, n := decodeWord(w)
		if err := c.appendRaw(code, n); err != nil {
			return err
		}
	}
	return nil
}

// NumRuns returns the number of normalized runs.
func (c *CigarSequence) NumRuns() int { return len(c.words) }

// GappedLen sums the counts of runs that consume ref or read bases.
// SOFT_CLIP contributes only when includeSoftClip is true.
func (c *CigarSequence) GappedLen(includeSoftClip bool) uint32 {
	var total uint32
	for _, w := range c.words {
		code, n := decodeWord(w)
		op := registryByCode[code]
		if !(op.ConsumesRef || op.ConsumesRead) {
			continue
		}
		if op == OpSoftClip && !includeSoftClip {
			continue
		}
		total += n
	}
	return total
}

// RefLen returns the total ref bases consumed. When queryBases >= 0,
// accumulation stops once the read-consuming runs seen so far would
// meet or exceed queryBases; the run that crosses the threshold is
// partially counted.
func (c *CigarSequence) RefLen(queryBases int) uint32 {
	var refTotal, queryRunning uint32
	capped := queryBases >= 0
	for _, w := range c.words {
		code, n := decodeWord(w)
		op := registryByCode[code]
		if op.ConsumesRead {
			if capped {
				remaining := uint32(queryBases) - queryRunning
				if n >= remaining {
					if op.ConsumesRef {
						refTotal += remaining
					}
					return refTotal
				}
			}
			queryRunning += n
		}
		if op.ConsumesRef {
			refTotal += n
		}
	}
	return refTotal
}

// QueryLen returns the total read bases consumed (optionally including
// SOFT_CLIP), capped symmetrically to RefLen by refBases when >= 0;
// only ref-consuming ops participate in the cap.
func (c *CigarSequence) QueryLen(refBases int, includeSoftClip bool) uint32 {
	var queryTotal, refRunning uint32
	capped := refBases >= 0
	for _, w := range c.words {
		code, n := decodeWord(w)
		op := registryByCode[code]
		if op.ConsumesRef {
			if capped {
				remaining := uint32(refBases) - refRunning
				if n >= remaining {
					if op.ConsumesRead {
						queryTotal += remaining
					}
					return queryTotal
				}
			}
			refRunning += n
			if op.ConsumesRead {
				queryTotal += n
			}
			continue
		}
		if !op.ConsumesRead {
			continue
		}
		if op == OpSoftClip && !includeSoftClip {
			continue
		}
		queryTotal += n
	}
	return queryTotal
}

// Count sums the counts of every run matching op.
func (c *CigarSequence) Count(op *CigarOp) uint32 {
	var total uint32
	for _, w := range c.words {
		code, n := decodeWord(w)
		if code == op.BinCode {
			total += n
		}
	}
	return total
}

// Reverse swaps words end-for-end in place.
func (c *CigarSequence) Reverse() {
	for i, j := 0, len(c.words)-1; i < j; i, j = i+1, j-1 {
		c.words[i], c.words[j] = c.words[j], c.words[i]
	}
}

func normalizeSliceIndex(i, n, step int) int {
	if i < 0 {
		i += n
	}
	if step > 0 {
		if i < 0 {
			i = 0
		}
		if i > n {
			i = n
		}
	} else {
		if i < -1 {
			i = -1
		}
		if i >= n {
			i = n - 1
		}
	}
	return i
}

// Slice returns a new CigarSequence built from words[start:stop:step]
// using Python-style slice semantics (negative indices count from the
// end). When step != ±1, adjacent runs of the result may share codes
// but are deliberately not re-coalesced.
func (c *CigarSequence) Slice(start, stop, step int) (*CigarSequence, error) {
	if step == 0 {
		return nil, errors.New("cigar: slice step must not be zero")
	}
	n := len(c.words)
	start = normalizeSliceIndex(start, n, step)
	stop = normalizeSliceIndex(stop, n, step)

	var words []uint32
	if step > 0 {
		for i := start; i < stop; i += step {
			words = append(words, c.words[i])
		}
	} else {
		for i := start; i > stop; i += step {
			words = append(words, c.words[i])
		}
	}
	return &CigarSequence{words: words}, nil
}

// Pop removes and returns the last run.
func (c *CigarSequence) Pop() (*CigarOp, uint32, error) {
	if len(c.words) == 0 {
		return nil, 0, errors.Wrap(ErrEmptySequence, "pop on empty cigar sequence")
	}
	last := len(c.words) - 1
	code, n := decodeWord(c.words[last])
	c.words = c.words[:last]
	return registryByCode[code], n, nil
}

// Invert produces a new sequence representing the reverse-role
// alignment (reference <-> query): HARD_CLIP and SOFT_CLIP are
// stripped from the body (the first stripped soft clip's count becomes
// sLeft, any subsequent stripped soft clip's count accumulates into
// sRight), remaining ops are replaced by their inverse, and leftClip /
// rightClip (each >= 0) optionally bracket the result with SOFT_CLIP
// runs.
func (c *CigarSequence) Invert(leftClip, rightClip int) (result *CigarSequence, sLeft, sRight int, err error) {
	if leftClip < 0 || rightClip < 0 {
		return nil, 0, 0, errors.Wrap(ErrInvalidClip, "invert: clip counts must be non-negative")
	}

	body := &CigarSequence{}
	var sawSoftClip bool
	for _, w := range c.words {
		code, n := decodeWord(w)
		op := registryByCode[code]
		if op == OpHardClip || op == OpSoftClip {
			if op == OpSoftClip {
				if !sawSoftClip {
					sLeft = int(n)
					sawSoftClip = true
				} else {
					sRight += int(n)
				}
			}
			continue
		}
		inv, ierr := op.Inverse()
		if ierr != nil {
			return nil, 0, 0, ierr
		}
		if aerr := body.appendRaw(inv.BinCode, n); aerr != nil {
			return nil, 0, 0, aerr
		}
	}

	result = body
	if leftClip > 0 {
		prefixed := &CigarSequence{}
		if err := prefixed.appendRaw(OpSoftClip.BinCode, uint32(leftClip)); err != nil {
			return nil, 0, 0, err
		}
		if err := prefixed.Extend(result); err != nil {
			return nil, 0, 0, err
		}
		result = prefixed
	}
	if rightClip > 0 {
		if err := result.appendRaw(OpSoftClip.BinCode, uint32(rightClip)); err != nil {
			return nil, 0, 0, err
		}
	}
	return result, sLeft, sRight, nil
}

// ConvertNToS rewrites every SKIPPED run's code to SOFT_CLIP in place,
// without touching counts and without re-coalescing adjacent runs —
// this deliberately preserves the original run boundaries.
func (c *CigarSequence) ConvertNToS() {
	for i, w := range c.words {
		if uint8(w&0xF) == OpSkipped.BinCode {
			c.words[i] = (w &^ 0xF) | uint32(OpSoftClip.BinCode)
		}
	}
}

// ToString serializes the sequence as "<count><char>..." runs, always
// carrying explicit counts including 1.
func (c *CigarSequence) ToString() []byte {
	var buf bytes.Buffer
	for _, w := range c.words {
		code, n := decodeWord(w)
		buf.WriteString(strconv.FormatUint(uint64(n), 10))
		buf.WriteByte(registryByCode[code].Char)
	}
	return buf.Bytes()
}

func (c *CigarSequence) String() string { return string(c.ToString()) }

// CodeCountPair is one (small-integer code, count) run.
type CodeCountPair struct {
	Code  uint8
	Count uint32
}

// ToPairList returns the sequence as (bin_code, count) pairs.
func (c *CigarSequence) ToPairList() []CodeCountPair {
	out := make([]CodeCountPair, len(c.words))
	for i, w := range c.words {
		code, n := decodeWord(w)
		out[i] = CodeCountPair{Code: code, Count: n}
	}
	return out
}

// OpCountPair is one (descriptor, count) run.
type OpCountPair struct {
	Op    *CigarOp
	Count uint32
}

// ToDescriptorList returns the sequence as (descriptor, count) pairs.
func (c *CigarSequence) ToDescriptorList() []OpCountPair {
	out := make([]OpCountPair, len(c.words))
	for i, w := range c.words {
		code, n := decodeWord(w)
		out[i] = OpCountPair{Op: registryByCode[code], Count: n}
	}
	return out
}

// ToBinaryWords returns a copy of the packed words, the binary CIGAR
// surface's in-memory shape.
func (c *CigarSequence) ToBinaryWords() []uint32 {
	out := make([]uint32, len(c.words))
	copy(out, c.words)
	return out
}

// ToBinaryBytes serializes the packed words as little-endian bytes.
func (c *CigarSequence) ToBinaryBytes() []byte {
	buf := make([]byte, 4*len(c.words))
	for i, w := range c.words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// Equal reports whether two sequences have identical runs.
func (c *CigarSequence) Equal(other *CigarSequence) bool {
	if other == nil {
		return false
	}
	if len(c.words) != len(other.words) {
		return false
	}
	for i := range c.words {
		if c.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// CigarStats summarizes the aligned region bounded by the first and
// last match-family run (MATCH, SEQ_MATCH or SEQ_MISMATCH).
type CigarStats struct {
	AlignLen   uint32
	Matches    uint32
	Gaps       uint32
	GapRegions uint32
}

// Stats computes run statistics over the aligned region, recognizing
// both MATCH and the extended SEQ_MATCH/SEQ_MISMATCH ops as matches
// for AlignLen bounds.
func (c *CigarSequence) Stats() CigarStats {
	begin, end := -1, -1
	for i, w := range c.words {
		code, _ := decodeWord(w)
		if code == OpMatch.BinCode || code == OpSeqMatch.BinCode || code == OpSeqMismatch.BinCode {
			if begin == -1 {
				begin = i
			}
			end = i
		}
	}
	var st CigarStats
	if begin == -1 {
		return st
	}
	for i := begin; i <= end; i++ {
		code, n := decodeWord(c.words[i])
		st.AlignLen += n
		switch code {
		case OpMatch.BinCode, OpSeqMatch.BinCode:
			st.Matches += n
		case OpInsertion.BinCode, OpDeletion.BinCode:
			st.Gaps += n
			st.GapRegions++
		}
	}
	return st
}
