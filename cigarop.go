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

// CigarOp is a singleton descriptor for one of the nine CIGAR
// operations. Instances are process-wide constants created at package
// init and never mutated.
type CigarOp struct {
	Name         string
	Char         byte
	BinCode      uint8
	ConsumesRef  bool
	ConsumesRead bool

	inverse *CigarOp
}

// Inverse returns the operation's strand-inversion counterpart, or
// ErrUnsupportedInverse if the operation has none.
func (op *CigarOp) Inverse() (*CigarOp, error) {
	if op.inverse == nil {
		return nil, errors.Wrapf(ErrUnsupportedInverse, "operation %q has no inverse", op.Name)
	}
	return op.inverse, nil
}

func (op *CigarOp) String() string { return op.Name }

// The fixed registry, in bin_code order.
var (
	OpMatch        = &CigarOp{Name: "MATCH", Char: 'M', BinCode: 0, ConsumesRef: true, ConsumesRead: true}
	OpInsertion    = &CigarOp{Name: "INSERTION", Char: 'I', BinCode: 1, ConsumesRef: false, ConsumesRead: true}
	OpDeletion     = &CigarOp{Name: "DELETION", Char: 'D', BinCode: 2, ConsumesRef: true, ConsumesRead: false}
	OpSkipped      = &CigarOp{Name: "SKIPPED", Char: 'N', BinCode: 3, ConsumesRef: true, ConsumesRead: false}
	OpSoftClip     = &CigarOp{Name: "SOFT_CLIP", Char: 'S', BinCode: 4, ConsumesRef: false, ConsumesRead: true}
	OpHardClip     = &CigarOp{Name: "HARD_CLIP", Char: 'H', BinCode: 5, ConsumesRef: false, ConsumesRead: false}
	OpPadding      = &CigarOp{Name: "PADDING", Char: 'P', BinCode: 6, ConsumesRef: false, ConsumesRead: false}
	OpSeqMatch     = &CigarOp{Name: "SEQ_MATCH", Char: '=', BinCode: 7, ConsumesRef: true, ConsumesRead: true}
	OpSeqMismatch  = &CigarOp{Name: "SEQ_MISMATCH", Char: 'X', BinCode: 8, ConsumesRef: true, ConsumesRead: true}
)

// registryByCode and registryByChar are built once at init, mirroring
// the fixed-array lookup-table idiom used throughout the pack (e.g.
// bíogo's cigarOpTypeLookup/consume tables).
var registryByCode [9]*CigarOp
var registryByChar [256]*CigarOp

func init() {
	OpMatch.inverse = OpMatch
	OpInsertion.inverse = OpDeletion
	OpDeletion.inverse = OpInsertion
	OpSeqMatch.inverse = OpSeqMatch
	OpSeqMismatch.inverse = OpSeqMismatch
	// OpSkipped, OpSoftClip, OpHardClip, OpPadding have no inverse.

	for _, op := range []*CigarOp{
		OpMatch, OpInsertion, OpDeletion, OpSkipped, OpSoftClip,
		OpHardClip, OpPadding, OpSeqMatch, OpSeqMismatch,
	} {
		registryByCode[op.BinCode] = op
		registryByChar[op.Char] = op
	}
}

// LookupChar returns the descriptor for a single operation character.
func LookupChar(c byte) (*CigarOp, error) {
	op := registryByChar[c]
	if op == nil {
		return nil, errors.Wrapf(ErrNotFound, "unknown cigar operator character %q", c)
	}
	return op, nil
}

// LookupBytes is LookupChar for a length-1 byte string; any other
// length fails with ErrNotFound.
func LookupBytes(b []byte) (*CigarOp, error) {
	if len(b) != 1 {
		return nil, errors.Wrapf(ErrNotFound, "cigar operator must be a single byte, got %q", b)
	}
	return LookupChar(b[0])
}

// LookupCode returns the descriptor for a small-integer bin_code.
func LookupCode(n int) (*CigarOp, error) {
	if n < 0 || n >= len(registryByCode) {
		return nil, errors.Wrapf(ErrNotFound, "cigar operator code %d out of range", n)
	}
	op := registryByCode[n]
	if op == nil {
		return nil, errors.Wrapf(ErrNotFound, "cigar operator code %d out of range", n)
	}
	return op, nil
}

// resolveOp decodes a polymorphic operator identifier: a *CigarOp (or
// CigarOp value) used directly, an integer resolved via bin_code, or an
// operation character (a byte, or a single-byte []byte or string)
// resolved via character lookup. Since byte and uint8 are the same Go
// type, a uint8 is always read as a character, never as a bin_code.
func resolveOp(id any) (*CigarOp, error) {
	switch v := id.(type) {
	case *CigarOp:
		return v, nil
	case CigarOp:
		return &v, nil
	case byte:
		return LookupChar(v)
	case []byte:
		return LookupBytes(v)
	case string:
		return LookupBytes([]byte(v))
	case int:
		return LookupCode(v)
	case int8:
		return LookupCode(int(v))
	case int16:
		return LookupCode(int(v))
	case int32:
		return LookupCode(int(v))
	case int64:
		return LookupCode(int(v))
	case uint16:
		return LookupCode(int(v))
	case uint32:
		return LookupCode(int(v))
	case uint64:
		return LookupCode(int(v))
	default:
		return nil, errors.Wrapf(ErrInvalidOperatorType, "unsupported operator identifier type %T", id)
	}
}
