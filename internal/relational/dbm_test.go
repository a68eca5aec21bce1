package relational

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBMAddConstraintAndClose(t *testing.T) {
	d := Top()
	d = d.AddConstraint(LeConst, 1, 0, 10)  // x <= 10
	d = d.AddConstraint(DiffLe, 2, 1, 5)    // y - x <= 5  (x=1, y=2)
	assert.False(t, d.IsBottom())

	lo, hi := d.ProjectInterval(2)
	assert.True(t, hi.Cmp(dbmBound(15)) <= 0)
	_ = lo
}

func TestDBMNegativeCycleIsBottom(t *testing.T) {
	d := Top()
	d = d.AddConstraint(DiffLe, 1, 2, -1) // x - y <= -1
	d = d.AddConstraint(DiffLe, 2, 1, -1) // y - x <= -1, contradictory
	assert.True(t, d.IsBottom())
}

func TestDBMJoinWidensToFeasibleUnion(t *testing.T) {
	a := Top().AddConstraint(LeConst, 1, 0, 5)
	b := Top().AddConstraint(LeConst, 1, 0, 10)
	j := a.Join(b)
	assert.True(t, a.Leq(j))
	assert.True(t, b.Leq(j))
}

func TestDBMWidenStabilizesGrowingBound(t *testing.T) {
	cur := Top().AddConstraint(LeConst, 1, 0, 0)
	next := Top().AddConstraint(LeConst, 1, 0, 1)
	w := cur.Widen(next)
	_, hi := w.ProjectInterval(1)
	assert.True(t, hi.IsPlusInfinity())
}

func TestDBMRenameMergesVariablePacks(t *testing.T) {
	d := Top().AddConstraint(LeConst, 1, 0, 3)
	r := d.Rename(1, 2)
	assert.ElementsMatch(t, []uint64{2}, r.Vars())
	_, hi := r.ProjectInterval(2)
	assert.True(t, hi.Cmp(dbmBound(3)) == 0)
}
