package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arstatic/internal/domain"
)

func TestBottomEnvironmentAbsorbsOnJoin(t *testing.T) {
	bot := BottomEnvironment(64, true)
	live := NewEnvironment(64, true)
	live.Scalars = live.Scalars.Set(1, domain.SingletonInterval(mi(5)))

	assert.Equal(t, live, bot.Join(live))
	assert.Equal(t, live, live.Join(bot))
}

func TestLeqBottomIsLeastElement(t *testing.T) {
	bot := BottomEnvironment(64, true)
	live := NewEnvironment(64, true)
	assert.True(t, bot.Leq(live))
	assert.False(t, live.Leq(bot))
}

func TestWidenAbsorbsBottom(t *testing.T) {
	bot := BottomEnvironment(64, true)
	live := NewEnvironment(64, true)
	assert.Equal(t, live, bot.Widen(live))
	assert.Equal(t, live, live.Widen(bot))
}

func TestJoinMergesScalarTablesToEnclosingRange(t *testing.T) {
	a := NewEnvironment(64, true)
	a.Scalars = a.Scalars.Set(1, domain.SingletonInterval(mi(1)))
	b := NewEnvironment(64, true)
	b.Scalars = b.Scalars.Set(1, domain.SingletonInterval(mi(2)))

	joined := a.Join(b)
	got := joined.Scalars.Get(1)
	assert.False(t, got.IsBottom())
	assert.True(t, domain.SingletonInterval(mi(1)).Leq(got))
	assert.True(t, domain.SingletonInterval(mi(2)).Leq(got))
}
