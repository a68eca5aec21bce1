package combinator

// DomainProduct3 triples three abstract domains with a single joint
// reduction hook, for triples like (pointer, nullity, interval-offset)
// that need cross-component refinement between all three rather than
// nested pairs (spec.md §4.7).
type DomainProduct3[A Lattice[A], B Lattice[B], C Lattice[C]] struct {
	First  A
	Second B
	Third  C
	reduce func(A, B, C) (A, B, C)
}

func NewDomainProduct3[A Lattice[A], B Lattice[B], C Lattice[C]](a A, b B, c C, reduce func(A, B, C) (A, B, C)) DomainProduct3[A, B, C] {
	ra, rb, rc := reduce(a, b, c)
	return DomainProduct3[A, B, C]{First: ra, Second: rb, Third: rc, reduce: reduce}
}

func (p DomainProduct3[A, B, C]) with(a A, b B, c C) DomainProduct3[A, B, C] {
	ra, rb, rc := p.reduce(a, b, c)
	return DomainProduct3[A, B, C]{First: ra, Second: rb, Third: rc, reduce: p.reduce}
}

func (p DomainProduct3[A, B, C]) IsBottom() bool {
	return p.First.IsBottom() || p.Second.IsBottom() || p.Third.IsBottom()
}

func (p DomainProduct3[A, B, C]) IsTop() bool {
	return p.First.IsTop() && p.Second.IsTop() && p.Third.IsTop()
}

func (p DomainProduct3[A, B, C]) Leq(o DomainProduct3[A, B, C]) bool {
	return p.First.Leq(o.First) && p.Second.Leq(o.Second) && p.Third.Leq(o.Third)
}

func (p DomainProduct3[A, B, C]) Join(o DomainProduct3[A, B, C]) DomainProduct3[A, B, C] {
	return p.with(p.First.Join(o.First), p.Second.Join(o.Second), p.Third.Join(o.Third))
}

func (p DomainProduct3[A, B, C]) Meet(o DomainProduct3[A, B, C]) DomainProduct3[A, B, C] {
	return p.with(p.First.Meet(o.First), p.Second.Meet(o.Second), p.Third.Meet(o.Third))
}

func (p DomainProduct3[A, B, C]) Widen(o DomainProduct3[A, B, C]) DomainProduct3[A, B, C] {
	return p.with(p.First.Widen(o.First), p.Second.Widen(o.Second), p.Third.Widen(o.Third))
}

func (p DomainProduct3[A, B, C]) Narrow(o DomainProduct3[A, B, C]) DomainProduct3[A, B, C] {
	return p.with(p.First.Narrow(o.First), p.Second.Narrow(o.Second), p.Third.Narrow(o.Third))
}
