package callctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushIsHashConsed(t *testing.T) {
	f := NewFactory()
	c1 := f.Push(Root(), 10)
	c2 := f.Push(Root(), 10)
	assert.Same(t, c1, c2)
}

func TestContainsDetectsRecursion(t *testing.T) {
	f := NewFactory()
	c := f.Push(Root(), 1)
	c = f.Push(c, 2)
	assert.True(t, Contains(c, 1))
	assert.True(t, Contains(c, 2))
	assert.False(t, Contains(c, 3))

	recursive := f.Push(c, 1)
	assert.True(t, Contains(recursive, 1))
}

func TestSitesOrderedOutermostFirst(t *testing.T) {
	f := NewFactory()
	c := f.Push(Root(), 1)
	c = f.Push(c, 2)
	c = f.Push(c, 3)
	assert.Equal(t, []uint64{1, 2, 3}, Sites(c))
	assert.Equal(t, 3, Depth(c))
}
