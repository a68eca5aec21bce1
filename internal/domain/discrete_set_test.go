package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscreteSetLattice(t *testing.T) {
	a := SingletonDiscreteSet("x")
	b := SingletonDiscreteSet("y")
	j := a.Join(b)
	assert.True(t, j.Contains("x"))
	assert.True(t, j.Contains("y"))
	assert.True(t, a.Leq(j))
	assert.True(t, b.Leq(j))

	m := a.Meet(b)
	assert.True(t, m.IsBottom())

	top := TopDiscreteSet[string]()
	assert.True(t, j.Leq(top))
}
