// Package arena provides index-addressed entry storage for the eviction
// engines, plus a doubly linked list whose links are arena indices.
//
// The arena is the sole owner of entry memory. Engines refer to entries by
// stable integer index, and list surgery rewires int fields instead of
// pointers. Freed slots go onto a free list and are reused, so a
// capacity-bounded engine settles into a fixed set of slots with no
// per-operation allocation on the hot path.
package arena

// none marks the absence of a neighbor link. Only detached slots carry it;
// slots resident in a list always point at a live slot or a sentinel.
const none = -1

type slot[K comparable, V any] struct {
	key  K
	val  V
	freq int
	prev int
	next int
}

// Arena is a growable slab of entry slots with free-list reuse.
// It is not safe for concurrent use; the owning engine's lock covers it.
type Arena[K comparable, V any] struct {
	slots []slot[K, V]
	free  []int
}

// New returns an arena with room for hint slots before the first growth.
func New[K comparable, V any](hint int) *Arena[K, V] {
	if hint < 0 {
		hint = 0
	}
	return &Arena[K, V]{slots: make([]slot[K, V], 0, hint)}
}

// Alloc stores key/val in a fresh or recycled slot and returns its index.
// The slot starts detached (no list links, frequency zero).
func (a *Arena[K, V]) Alloc(key K, val V) int {
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[i] = slot[K, V]{key: key, val: val, prev: none, next: none}
		return i
	}
	a.slots = append(a.slots, slot[K, V]{key: key, val: val, prev: none, next: none})
	return len(a.slots) - 1
}

// Release returns slot i to the free list. The slot is zeroed so the arena
// does not pin the evicted key or value for the garbage collector.
func (a *Arena[K, V]) Release(i int) {
	a.slots[i] = slot[K, V]{prev: none, next: none}
	a.free = append(a.free, i)
}

// Reset discards every slot. Outstanding indices (including list sentinels)
// become invalid; callers rebuild their lists afterwards.
func (a *Arena[K, V]) Reset() {
	a.slots = a.slots[:0]
	a.free = a.free[:0]
}

// Key returns the key stored in slot i.
func (a *Arena[K, V]) Key(i int) K { return a.slots[i].key }

// Value returns the value stored in slot i.
func (a *Arena[K, V]) Value(i int) V { return a.slots[i].val }

// SetValue updates the value in slot i in place; links are untouched.
func (a *Arena[K, V]) SetValue(i int, v V) { a.slots[i].val = v }

// Freq returns the access frequency recorded in slot i.
func (a *Arena[K, V]) Freq(i int) int { return a.slots[i].freq }

// SetFreq records an access frequency in slot i.
func (a *Arena[K, V]) SetFreq(i int, f int) { a.slots[i].freq = f }

// List is a doubly linked list over arena slots, bounded by two sentinel
// slots that are never exposed to callers. Front is the eviction end,
// back is the most-recent end.
type List[K comparable, V any] struct {
	a    *Arena[K, V]
	head int
	tail int
	n    int
}

// NewList allocates the two sentinels and returns an empty list.
func NewList[K comparable, V any](a *Arena[K, V]) *List[K, V] {
	var zk K
	var zv V
	l := &List[K, V]{a: a}
	l.head = a.Alloc(zk, zv)
	l.tail = a.Alloc(zk, zv)
	a.slots[l.head].next = l.tail
	a.slots[l.tail].prev = l.head
	return l
}

// PushBack links slot i in front of the tail sentinel (most-recent end).
func (l *List[K, V]) PushBack(i int) {
	s := l.a.slots
	p := s[l.tail].prev
	s[i].prev = p
	s[i].next = l.tail
	s[p].next = i
	s[l.tail].prev = i
	l.n++
}

// Remove detaches slot i from the list. The slot itself stays allocated;
// the caller either relinks it (MoveToBack, bucket hop) or releases it.
func (l *List[K, V]) Remove(i int) {
	s := l.a.slots
	p, x := s[i].prev, s[i].next
	s[p].next = x
	s[x].prev = p
	s[i].prev = none
	s[i].next = none
	l.n--
}

// MoveToBack relinks slot i at the most-recent end in O(1).
func (l *List[K, V]) MoveToBack(i int) {
	if l.a.slots[l.tail].prev == i {
		return
	}
	l.Remove(i)
	l.PushBack(i)
}

// Front returns the slot at the eviction end, or false when the list is empty.
func (l *List[K, V]) Front() (int, bool) {
	i := l.a.slots[l.head].next
	if i == l.tail {
		return 0, false
	}
	return i, true
}

// Len returns the number of resident slots (sentinels excluded).
func (l *List[K, V]) Len() int { return l.n }

// Empty reports whether the list holds no resident slots.
func (l *List[K, V]) Empty() bool { return l.n == 0 }

// Discard releases the sentinels back to the arena. The list must be empty
// and must not be used afterwards. Frequency buckets use this when pruned.
func (l *List[K, V]) Discard() {
	l.a.Release(l.head)
	l.a.Release(l.tail)
	l.head, l.tail = none, none
}
