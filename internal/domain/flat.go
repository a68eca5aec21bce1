package domain

// flatState is the common shape for the small finite lattices of
// spec.md §3: ⊥ < value < ⊤, no relation among distinct values.
type flatState int

const (
	flatBottom flatState = iota
	flatValue
	flatTop
)

// Nullity is {⊥, null, non-null, ⊤} (spec.md §3).
type NullityValue int

const (
	NullityNull NullityValue = iota
	NullityNonNull
)

type Nullity struct {
	state flatState
	value NullityValue
}

func BottomNullity() Nullity          { return Nullity{state: flatBottom} }
func TopNullity() Nullity             { return Nullity{state: flatTop} }
func NullNullity() Nullity            { return Nullity{state: flatValue, value: NullityNull} }
func NonNullNullity() Nullity         { return Nullity{state: flatValue, value: NullityNonNull} }

func (n Nullity) IsBottom() bool { return n.state == flatBottom }
func (n Nullity) IsTop() bool    { return n.state == flatTop }
func (n Nullity) IsNull() bool   { return n.state == flatValue && n.value == NullityNull }
func (n Nullity) IsNonNull() bool { return n.state == flatValue && n.value == NullityNonNull }

func (n Nullity) String() string {
	switch n.state {
	case flatBottom:
		return "_|_"
	case flatTop:
		return "T"
	default:
		if n.value == NullityNull {
			return "null"
		}
		return "non-null"
	}
}

func (n Nullity) Leq(o Nullity) bool {
	if n.state == flatBottom || o.state == flatTop {
		return true
	}
	if o.state == flatBottom {
		return n.state == flatBottom
	}
	if n.state == flatTop {
		return false
	}
	return n.value == o.value
}

func (n Nullity) Join(o Nullity) Nullity {
	if n.state == flatBottom {
		return o
	}
	if o.state == flatBottom {
		return n
	}
	if n.state == flatTop || o.state == flatTop {
		return TopNullity()
	}
	if n.value == o.value {
		return n
	}
	return TopNullity()
}

func (n Nullity) Meet(o Nullity) Nullity {
	if n.state == flatTop {
		return o
	}
	if o.state == flatTop {
		return n
	}
	if n.state == flatBottom || o.state == flatBottom {
		return BottomNullity()
	}
	if n.value == o.value {
		return n
	}
	return BottomNullity()
}

// Finite-height lattice: widen/narrow degrade to join/meet.
func (n Nullity) Widen(o Nullity) Nullity  { return n.Join(o) }
func (n Nullity) Narrow(o Nullity) Nullity { return n.Meet(o) }

// Uninitialized is {⊥, uninitialized, initialized, ⊤} (spec.md §3).
type UninitState int

const (
	Uninitialized UninitState = iota
	Initialized
)

type Uninit struct {
	state flatState
	value UninitState
}

func BottomUninit() Uninit           { return Uninit{state: flatBottom} }
func TopUninit() Uninit              { return Uninit{state: flatTop} }
func UninitializedValue() Uninit     { return Uninit{state: flatValue, value: Uninitialized} }
func InitializedValue() Uninit       { return Uninit{state: flatValue, value: Initialized} }

func (u Uninit) IsBottom() bool       { return u.state == flatBottom }
func (u Uninit) IsTop() bool          { return u.state == flatTop }
func (u Uninit) IsUninitialized() bool { return u.state == flatValue && u.value == Uninitialized }
func (u Uninit) IsInitialized() bool  { return u.state == flatValue && u.value == Initialized }

func (u Uninit) String() string {
	switch u.state {
	case flatBottom:
		return "_|_"
	case flatTop:
		return "T"
	default:
		if u.value == Uninitialized {
			return "uninitialized"
		}
		return "initialized"
	}
}

func (u Uninit) Leq(o Uninit) bool {
	if u.state == flatBottom || o.state == flatTop {
		return true
	}
	if o.state == flatBottom {
		return u.state == flatBottom
	}
	if u.state == flatTop {
		return false
	}
	return u.value == o.value
}

func (u Uninit) Join(o Uninit) Uninit {
	if u.state == flatBottom {
		return o
	}
	if o.state == flatBottom {
		return u
	}
	if u.state == flatTop || o.state == flatTop || u.value != o.value {
		return TopUninit()
	}
	return u
}

func (u Uninit) Meet(o Uninit) Uninit {
	if u.state == flatTop {
		return o
	}
	if o.state == flatTop {
		return u
	}
	if u.state == flatBottom || o.state == flatBottom || u.value != o.value {
		return BottomUninit()
	}
	return u
}

func (u Uninit) Widen(o Uninit) Uninit  { return u.Join(o) }
func (u Uninit) Narrow(o Uninit) Uninit { return u.Meet(o) }

// Lifetime is {⊥, allocated, deallocated, ⊤} per dyn-alloc memory
// location (spec.md §3).
type LifetimeState int

const (
	Allocated LifetimeState = iota
	Deallocated
)

type Lifetime struct {
	state flatState
	value LifetimeState
}

func BottomLifetime() Lifetime           { return Lifetime{state: flatBottom} }
func TopLifetime() Lifetime              { return Lifetime{state: flatTop} }
func AllocatedLifetime() Lifetime        { return Lifetime{state: flatValue, value: Allocated} }
func DeallocatedLifetime() Lifetime      { return Lifetime{state: flatValue, value: Deallocated} }

func (l Lifetime) IsBottom() bool      { return l.state == flatBottom }
func (l Lifetime) IsTop() bool         { return l.state == flatTop }
func (l Lifetime) IsAllocated() bool   { return l.state == flatValue && l.value == Allocated }
func (l Lifetime) IsDeallocated() bool { return l.state == flatValue && l.value == Deallocated }

func (l Lifetime) String() string {
	switch l.state {
	case flatBottom:
		return "_|_"
	case flatTop:
		return "T"
	default:
		if l.value == Allocated {
			return "allocated"
		}
		return "deallocated"
	}
}

func (l Lifetime) Leq(o Lifetime) bool {
	if l.state == flatBottom || o.state == flatTop {
		return true
	}
	if o.state == flatBottom {
		return l.state == flatBottom
	}
	if l.state == flatTop {
		return false
	}
	return l.value == o.value
}

func (l Lifetime) Join(o Lifetime) Lifetime {
	if l.state == flatBottom {
		return o
	}
	if o.state == flatBottom {
		return l
	}
	if l.state == flatTop || o.state == flatTop || l.value != o.value {
		return TopLifetime()
	}
	return l
}

func (l Lifetime) Meet(o Lifetime) Lifetime {
	if l.state == flatTop {
		return o
	}
	if o.state == flatTop {
		return l
	}
	if l.state == flatBottom || o.state == flatBottom || l.value != o.value {
		return BottomLifetime()
	}
	return l
}

func (l Lifetime) Widen(o Lifetime) Lifetime  { return l.Join(o) }
func (l Lifetime) Narrow(o Lifetime) Lifetime { return l.Meet(o) }
