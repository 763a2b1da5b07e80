// core/residue/residue.go
package residue

import (
	"fmt"
	"strings"
	"unicode"
)

// Type is an amino-acid residue type. The 20 canonical types are numbered
// 0..19 in alphabetical three-letter order; Unknown marks an unresolved
// position.
type Type uint8

const (
	Ala Type = iota
	Arg
	Asn
	Asp
	Cys
	Gln
	Glu
	Gly
	His
	Ile
	Leu
	Lys
	Met
	Phe
	Pro
	Ser
	Thr
	Trp
	Tyr
	Val
	Unknown
)

// NumCanonical is the size of the supported alphabet (Unknown excluded).
const NumCanonical = 20

var oneLetter = [...]byte{'A', 'R', 'N', 'D', 'C', 'Q', 'E', 'G', 'H', 'I', 'L', 'K', 'M', 'F', 'P', 'S', 'T', 'W', 'Y', 'V', 'X'}

var threeLetter = [...]string{"ALA", "ARG", "ASN", "ASP", "CYS", "GLN", "GLU", "GLY", "HIS", "ILE", "LEU", "LYS", "MET", "PHE", "PRO", "SER", "THR", "TRP", "TYR", "VAL", "UNK"}

var fromCode = func() map[byte]Type {
	m := make(map[byte]Type, len(oneLetter))
	for i, c := range oneLetter {
		m[c] = Type(i)
	}
	return m
}()

// FromCode maps a one-letter code (case-insensitive) to a Type.
func FromCode(c byte) (Type, bool) {
	t, ok := fromCode[byte(unicode.ToUpper(rune(c)))]
	return t, ok
}

// Code returns the one-letter code ('X' for Unknown).
func (t Type) Code() byte {
	if int(t) >= len(oneLetter) {
		return 'X'
	}
	return oneLetter[t]
}

// Name returns the three-letter PDB residue name.
func (t Type) Name() string {
	if int(t) >= len(threeLetter) {
		return "UNK"
	}
	return threeLetter[t]
}

func (t Type) String() string { return t.Name() }

// IsCanonical reports whether t is one of the 20 supported residue types.
func (t Type) IsCanonical() bool { return t < Unknown }

// Sequence is an immutable ordered list of residue types.
type Sequence []Type

// Parse converts one-letter codes to a Sequence. Whitespace is skipped; 'X'
// becomes Unknown. Characters that are not residue codes at all are rejected
// here; Unknown is rejected later by Validate.
func Parse(raw string) (Sequence, error) {
	seq := make(Sequence, 0, len(raw))
	pos := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if unicode.IsSpace(rune(c)) {
			continue
		}
		t, ok := FromCode(c)
		if !ok {
			return nil, &InvalidSequenceError{Pos: pos, Code: c, Reason: "not an amino-acid code"}
		}
		seq = append(seq, t)
		pos++
	}
	return seq, nil
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(raw string) Sequence {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks the sequence against the supported alphabet.
func Validate(seq Sequence) error {
	if len(seq) == 0 {
		return &InvalidSequenceError{Pos: -1, Reason: "empty sequence"}
	}
	for i, t := range seq {
		if !t.IsCanonical() {
			return &InvalidSequenceError{Pos: i, Code: t.Code(), Reason: "residue type not supported"}
		}
	}
	return nil
}

func (s Sequence) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, t := range s {
		b.WriteByte(t.Code())
	}
	return b.String()
}

// InvalidSequenceError reports input outside the supported residue alphabet.
// It is recoverable by the caller: fix the input and retry.
type InvalidSequenceError struct {
	Pos    int // 0-based residue index; -1 when the whole sequence is at fault
	Code   byte
	Reason string
}

func (e *InvalidSequenceError) Error() string {
	if e.Pos < 0 {
		return "invalid sequence: " + e.Reason
	}
	return fmt.Sprintf("invalid sequence: %q at position %d: %s", e.Code, e.Pos+1, e.Reason)
}
