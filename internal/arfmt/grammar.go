package arfmt

// Program is the parsed form of a whole textual AR file: an ordered
// list of external declarations and function definitions, mirroring
// internal/ar.Bundle's Functions list (a Decl is a Function with no
// Entry block, exactly spec.md §4.11's "declaration-only" function).
type Program struct {
	Items []*TopLevel `@@*`
}

type TopLevel struct {
	Decl *Decl    `  @@`
	Func *FuncDef `| @@`
}

// Decl declares an external function signature, the shape a
// DoubleFreeChecker test fixture needs for `malloc`/`free` without
// giving them a body. The ";" conventionally written after the return
// type starts a Comment token, which the parser elides.
type Decl struct {
	Name   string  `"decl" @Ident "("`
	Params []*Type `[ @@ { "," @@ } ] ")" "->"`
	Ret    *Type   `@@`
}

type FuncDef struct {
	Name   string   `"fn" @Ident "("`
	Params []*Param `[ @@ { "," @@ } ] ")" "->"`
	Ret    *Type    `@@ "{"`
	Blocks []*Block `@@* "}"`
}

type Param struct {
	Name string `@Ident ":"`
	Type *Type  `@@`
}

// Type is a scalar integer (si64/ui32/...) or a pointer to one,
// written with a trailing "*" the way internal/ar's IntType/
// PointerType.String() already render it — so arfmt's own printer can
// reuse Type.String() directly for round-tripping.
type Type struct {
	Name    string `@Ident`
	Pointer bool   `[ @"*" ]`
}

// Block is one labelled basic block: a sequence of statements ending
// in a terminator (Ret/Br/Jmp), built into *ar.BasicBlock by assemble.go
// in two passes (blocks first, then edges) so a forward jump/branch
// target can be resolved regardless of declaration order.
type Block struct {
	Label string  `@Ident ":"`
	Stmts []*Stmt `@@*`
}

type Stmt struct {
	Assign *AssignStmt `  @@`
	Store  *StoreStmt  `| @@`
	VCall  *CallStmt   `| @@`
	Ret    *RetStmt    `| @@`
	Br     *BrStmt     `| @@`
	Jmp    *JmpStmt    `| @@`
}

type AssignStmt struct {
	Dest string `@Ident`
	Type *Type  `[ ":" @@ ]`
	Rhs  *Rhs   `"=" @@`
}

type Rhs struct {
	Arith *ArithRhs `  @@`
	Cmp   *CmpRhs   `| @@`
	Call  *CallRhs  `| @@`
	Load  *LoadRhs  `| @@`
	Shift *ShiftRhs `| @@`
}

type ArithRhs struct {
	Op    string   `@("add"|"sub"|"mul"|"sdiv"|"udiv"|"srem"|"urem"|"shl"|"lshr"|"ashr"|"and"|"or"|"xor")`
	Left  *Operand `@@ ","`
	Right *Operand `@@`
}

type CmpRhs struct {
	Kw    string   `"cmp"`
	Pred  string   `@("lt"|"le"|"eq"|"ne"|"gt"|"ge")`
	Left  *Operand `@@ ","`
	Right *Operand `@@`
}

type CallRhs struct {
	Callee *Operand   `"call" @@ "("`
	Args   []*Operand `[ @@ { "," @@ } ] ")"`
}

type LoadRhs struct {
	Kw  string   `"load"`
	Ptr *Operand `@@`
}

type ShiftRhs struct {
	Kw     string   `"ptrshift"`
	Base   *Operand `@@ ","`
	Offset string   `@Integer`
}

// StoreStmt is `store ptr, value` — *ptr = value (spec.md §4.11's
// Store statement), no destination variable.
type StoreStmt struct {
	Ptr   *Operand `"store" @@ ","`
	Value *Operand `@@`
}

// CallStmt is a void call statement: `call @callee(args...)`.
type CallStmt struct {
	Callee *Operand   `"call" @@ "("`
	Args   []*Operand `[ @@ { "," @@ } ] ")"`
}

type RetStmt struct {
	Value *Operand `"ret" [ @@ ]`
}

// BrStmt is a two-way conditional branch: `br cond, trueLabel, falseLabel`.
type BrStmt struct {
	Cond  *Operand `"br" @@ ","`
	True  string   `@Ident ","`
	False string   `@Ident`
}

type JmpStmt struct {
	Target string `"jmp" @Ident`
}

// Operand is either a function-address reference (`@name`, resolved
// against the program's declared/defined functions), an integer
// literal, or a variable name (resolved per-function, auto-vivified on
// first appearance, whether as a destination or as an operand).
type Operand struct {
	FuncRef *string `  "@" @Ident`
	IntLit  *string `| @Integer`
	Name    *string `| @Ident`
}
