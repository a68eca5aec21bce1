package ar

// StatementID uniquely identifies a statement within a bundle; it is
// the key the persisted report (spec.md §6.4) indexes on.
type StatementID uint64

// Statement is the common contract every AR instruction implements.
type Statement interface {
	ID() StatementID
	Block() *BasicBlock
	Loc() SourceLocation
	String() string
}

type base struct {
	SID    StatementID
	Blk    *BasicBlock
	SrcLoc SourceLocation
}

func (b *base) ID() StatementID    { return b.SID }
func (b *base) Block() *BasicBlock { return b.Blk }
func (b *base) Loc() SourceLocation { return b.SrcLoc }

// ArithOp / BitwiseOp enumerate the operators spec.md §4.11 names.
type ArithOp string

const (
	OpAdd  ArithOp = "add"
	OpSub  ArithOp = "sub"
	OpMul  ArithOp = "mul"
	OpSDiv ArithOp = "sdiv"
	OpUDiv ArithOp = "udiv"
	OpSRem ArithOp = "srem"
	OpURem ArithOp = "urem"
	OpShl  ArithOp = "shl"
	OpLShr ArithOp = "lshr"
	OpAShr ArithOp = "ashr"
	OpAnd  ArithOp = "and"
	OpOr   ArithOp = "or"
	OpXor  ArithOp = "xor"
)

// Arithmetic is `x = y op z` (spec.md §4.11).
type Arithmetic struct {
	base
	Result   *Variable
	Op       ArithOp
	Left, Right Operand
}

func (s *Arithmetic) String() string { return string(s.Result.Name) + " = " + string(s.Op) + " ..." }

// Predicate enumerates comparison predicates (spec.md §4.2).
type Predicate string

const (
	PredLT Predicate = "lt"
	PredLE Predicate = "le"
	PredEQ Predicate = "eq"
	PredNE Predicate = "ne"
	PredGT Predicate = "gt"
	PredGE Predicate = "ge"
)

// Comparison is the `cmp` statement of spec.md §4.11.
type Comparison struct {
	base
	Result      *Variable
	Pred        Predicate
	Left, Right Operand
}

func (s *Comparison) String() string { return s.Result.Name + " = cmp " + string(s.Pred) }

// ConversionKind enumerates trunc/zext/sext/bitcast.
type ConversionKind string

const (
	ConvTrunc   ConversionKind = "trunc"
	ConvZExt    ConversionKind = "zext"
	ConvSExt    ConversionKind = "sext"
	ConvBitcast ConversionKind = "bitcast"
	ConvPtrToInt ConversionKind = "ptrtoint"
	ConvIntToPtr ConversionKind = "inttoptr"
)

// Conversion is trunc/zext/sext/bitcast, including pointer<->integer
// bitcasts (spec.md §4.11).
type Conversion struct {
	base
	Result  *Variable
	Kind    ConversionKind
	Operand Operand
	ToType  Type
}

func (s *Conversion) String() string { return s.Result.Name + " = " + string(s.Kind) }

// Allocate is a stack allocation (spec.md §4.11).
type Allocate struct {
	base
	Result *Variable
	Size   uint64
	Align  uint64
}

func (s *Allocate) String() string { return s.Result.Name + " = allocate" }

// Store is `*p = v` (spec.md §4.11).
type Store struct {
	base
	Pointer Operand
	Value   Operand
	Size    uint64
}

func (s *Store) String() string { return "store" }

// Load is `x = *p` (spec.md §4.11).
type Load struct {
	base
	Result  *Variable
	Pointer Operand
	Size    uint64
}

func (s *Load) String() string { return s.Result.Name + " = load" }

// PointerShift is `p := q + I` with a statically-known byte offset.
type PointerShift struct {
	base
	Result  *Variable
	Base    Operand
	Offset  int64
}

func (s *PointerShift) String() string { return s.Result.Name + " = ptrshift" }

// AbstractVariable / AbstractMemory conservatively invalidate a
// variable or memory region (used by inline-asm, va_arg, and other
// constructs the core treats as opaque — spec.md §4.11).
type AbstractVariable struct {
	base
	Result *Variable
}

func (s *AbstractVariable) String() string { return s.Result.Name + " = abstract" }

type AbstractMemory struct {
	base
	Pointer Operand
	Size    uint64
}

func (s *AbstractMemory) String() string { return "abstract-memory" }

// MemIntrinsicKind enumerates memcpy/memmove/memset.
type MemIntrinsicKind string

const (
	MemCopy MemIntrinsicKind = "memcpy"
	MemMove MemIntrinsicKind = "memmove"
	MemSet  MemIntrinsicKind = "memset"
)

// MemIntrinsic models memcpy/memmove/memset (spec.md §4.11).
type MemIntrinsic struct {
	base
	Kind        MemIntrinsicKind
	Dst, Src    Operand // Src unused for memset
	Value       Operand // fill byte, memset only
	Size        Operand
}

func (s *MemIntrinsic) String() string { return string(s.Kind) }

// Call is a direct or indirect call statement (spec.md §4.12).
type Call struct {
	base
	Result   *Variable // nil if the callee returns void
	Callee   Operand   // *Variable (indirect), *FunctionAddrConstant, or *InlineAsmConstant
	Args     []Operand
	MayThrow bool
}

func (s *Call) String() string { return "call" }

// Invoke is a call with an explicit normal/exception successor pair.
type Invoke struct {
	Call
	Normal    *BasicBlock
	LandingPad *BasicBlock
}

func (s *Invoke) String() string { return "invoke" }

// Return terminates a function.
type Return struct {
	base
	Value Operand // nil for void
}

func (s *Return) String() string { return "return" }

// LandingPad merges caught-exception state into normal flow at a
// landing-pad block entry (spec.md §4.11).
type LandingPad struct {
	base
	Result *Variable // the caught exception value, if bound
}

func (s *LandingPad) String() string { return "landingpad" }

// Resume re-raises the currently caught exception (spec.md §4.11).
type Resume struct {
	base
	Value Operand
}

func (s *Resume) String() string { return "resume" }

// Unreachable marks a statically-unreachable program point.
type Unreachable struct{ base }

func (s *Unreachable) String() string { return "unreachable" }

// VaKind enumerates the conservative va_* family (spec.md §4.11).
type VaKind string

const (
	VaStart VaKind = "va_start"
	VaEnd   VaKind = "va_end"
	VaArg   VaKind = "va_arg"
	VaCopy  VaKind = "va_copy"
)

type VaStatement struct {
	base
	Kind   VaKind
	Result *Variable // va_arg only
	List   Operand
}

func (s *VaStatement) String() string { return string(s.Kind) }

// ElementOp enumerates insert/extract-element (spec.md §4.11).
type ElementOp string

const (
	InsertElement  ElementOp = "insertelement"
	ExtractElement ElementOp = "extractelement"
)

type ElementStatement struct {
	base
	Op      ElementOp
	Result  *Variable
	Vector  Operand
	Index   Operand
	Value   Operand // insertelement only
}

func (s *ElementStatement) String() string { return string(s.Op) }

