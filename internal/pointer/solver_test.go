package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/domain"
	"arstatic/internal/number"
)

func offsetConst(v int64) PointerAbsValue {
	p := BottomPointerAbsValue(32, true)
	p.Offset = domain.NewInterval(
		number.FiniteBound(number.MachineIntFromInt64(v, 32, true)),
		number.FiniteBound(number.MachineIntFromInt64(v, 32, true)),
		32, true)
	return p
}

func TestSolverAddressOfThenLoad(t *testing.T) {
	s := NewSolver(32, true)
	const (
		p        = 1
		local    = 100
		fieldVal = 2
	)
	s.AddConstraint(Constraint{Kind: AssignAddr, Var: p, Loc: local, Offset: offsetConst(0)})
	s.AddConstraint(Constraint{Kind: Store, Var: p, Other: fieldVal})
	s.Solve()
	s.pointer[fieldVal] = AddressOf(200, number.MachineIntFromInt64(0, 32, true))
	s.Solve()

	pv := s.Pointer(p)
	assert.True(t, pv.PointsTo.Contains(local))

	s.AddConstraint(Constraint{Kind: Load, Var: 3, Other: p})
	s.Solve()
	loaded := s.Pointer(3)
	assert.True(t, loaded.PointsTo.Contains(200))
}

func TestSolverTopPointsToTaintsAllMemory(t *testing.T) {
	s := NewSolver(32, true)
	s.pointer[1] = TopPointerAbsValue(32, true)
	s.memory[42] = AddressOf(7, number.MachineIntFromInt64(0, 32, true))
	s.AddConstraint(Constraint{Kind: Store, Var: 1, Other: 2})
	s.Solve()
	assert.True(t, s.Memory(42).IsTop())
}

func TestSolverIsMonotonicAcrossReSolve(t *testing.T) {
	s := NewSolver(32, true)
	s.AddConstraint(Constraint{Kind: AssignAddr, Var: 1, Loc: 10, Offset: offsetConst(0)})
	s.Solve()
	before := s.Pointer(1)
	s.AddConstraint(Constraint{Kind: AssignAddr, Var: 1, Loc: 11, Offset: offsetConst(0)})
	s.Solve()
	after := s.Pointer(1)
	assert.True(t, before.Leq(after))
}
