package ar

// Constructors below are the only way outside callers (internal/arfmt,
// tests) build statements, keeping the ID/block/location bookkeeping in
// one place instead of repeated struct literals.

func NewArithmetic(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable, op ArithOp, l, r Operand) *Arithmetic {
	return &Arithmetic{base: base{id, blk, loc}, Result: result, Op: op, Left: l, Right: r}
}

func NewComparison(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable, pred Predicate, l, r Operand) *Comparison {
	return &Comparison{base: base{id, blk, loc}, Result: result, Pred: pred, Left: l, Right: r}
}

func NewConversion(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable, kind ConversionKind, operand Operand, to Type) *Conversion {
	return &Conversion{base: base{id, blk, loc}, Result: result, Kind: kind, Operand: operand, ToType: to}
}

func NewAllocate(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable, size, align uint64) *Allocate {
	return &Allocate{base: base{id, blk, loc}, Result: result, Size: size, Align: align}
}

func NewStore(id StatementID, blk *BasicBlock, loc SourceLocation, ptr, val Operand, size uint64) *Store {
	return &Store{base: base{id, blk, loc}, Pointer: ptr, Value: val, Size: size}
}

func NewLoad(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable, ptr Operand, size uint64) *Load {
	return &Load{base: base{id, blk, loc}, Result: result, Pointer: ptr, Size: size}
}

func NewPointerShift(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable, base_ Operand, offset int64) *PointerShift {
	return &PointerShift{base: base{id, blk, loc}, Result: result, Base: base_, Offset: offset}
}

func NewAbstractVariable(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable) *AbstractVariable {
	return &AbstractVariable{base: base{id, blk, loc}, Result: result}
}

func NewAbstractMemory(id StatementID, blk *BasicBlock, loc SourceLocation, ptr Operand, size uint64) *AbstractMemory {
	return &AbstractMemory{base: base{id, blk, loc}, Pointer: ptr, Size: size}
}

func NewMemIntrinsic(id StatementID, blk *BasicBlock, loc SourceLocation, kind MemIntrinsicKind, dst, src, value, size Operand) *MemIntrinsic {
	return &MemIntrinsic{base: base{id, blk, loc}, Kind: kind, Dst: dst, Src: src, Value: value, Size: size}
}

func NewCall(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable, callee Operand, args []Operand) *Call {
	return &Call{base: base{id, blk, loc}, Result: result, Callee: callee, Args: args}
}

func NewInvoke(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable, callee Operand, args []Operand, normal, pad *BasicBlock) *Invoke {
	return &Invoke{
		Call:       Call{base: base{id, blk, loc}, Result: result, Callee: callee, Args: args},
		Normal:     normal,
		LandingPad: pad,
	}
}

func NewReturn(id StatementID, blk *BasicBlock, loc SourceLocation, value Operand) *Return {
	return &Return{base: base{id, blk, loc}, Value: value}
}

func NewLandingPad(id StatementID, blk *BasicBlock, loc SourceLocation, result *Variable) *LandingPad {
	return &LandingPad{base: base{id, blk, loc}, Result: result}
}

func NewResume(id StatementID, blk *BasicBlock, loc SourceLocation, value Operand) *Resume {
	return &Resume{base: base{id, blk, loc}, Value: value}
}

func NewUnreachable(id StatementID, blk *BasicBlock, loc SourceLocation) *Unreachable {
	return &Unreachable{base: base{id, blk, loc}}
}

func NewVaStatement(id StatementID, blk *BasicBlock, loc SourceLocation, kind VaKind, result *Variable, list Operand) *VaStatement {
	return &VaStatement{base: base{id, blk, loc}, Kind: kind, Result: result, List: list}
}

func NewElementStatement(id StatementID, blk *BasicBlock, loc SourceLocation, op ElementOp, result *Variable, vec, index, value Operand) *ElementStatement {
	return &ElementStatement{base: base{id, blk, loc}, Op: op, Result: result, Vector: vec, Index: index, Value: value}
}
