package jsontree

import (
	"fmt"
	"math/bits"
)

// FenwickTree maintains prefix sums over a fixed number of non-negative row heights.
// Indices are 0-based; the internal array is 1-based.
type FenwickTree struct {
	n    int
	tree []int
	// highest power of two <= n, used by LowerBound
	mask int
}

// NewFenwickTree builds a tree over values in O(n)
func NewFenwickTree(values []int) *FenwickTree {
	n := len(values)
	f := &FenwickTree{n: n, tree: make([]int, n+1)}
	copy(f.tree[1:], values)
	for i := 1; i <= n; i++ {
		if parent := i + (i & -i); parent <= n {
			f.tree[parent] += f.tree[i]
		}
	}
	if n > 0 {
		f.mask = 1 << (bits.Len(uint(n)) - 1)
	}
	return f
}

// Len returns the number of indexed values
func (f *FenwickTree) Len() int {
	return f.n
}

// Add adds delta to the value at index i
func (f *FenwickTree) Add(i, delta int) {
	if i < 0 || i >= f.n {
		panic(fmt.Sprintf("jsontree: fenwick index %d out of range [0,%d)", i, f.n))
	}
	for x := i + 1; x <= f.n; x += x & -x {
		f.tree[x] += delta
	}
}

// Sum returns the sum of values in [0, i)
func (f *FenwickTree) Sum(i int) int {
	if i < 0 || i > f.n {
		panic(fmt.Sprintf("jsontree: fenwick prefix %d out of range [0,%d]", i, f.n))
	}
	s := 0
	for x := i; x > 0; x -= x & -x {
		s += f.tree[x]
	}
	return s
}

// Total returns the sum of all values
func (f *FenwickTree) Total() int {
	return f.Sum(f.n)
}

// LowerBound returns the largest index idx with Sum(idx) <= target, which is the
// index of the row covering offset target. Targets at or below zero map to 0 and
// targets at or past Total() map to the last index.
func (f *FenwickTree) LowerBound(target int) int {
	if f.n == 0 || target <= 0 {
		return 0
	}
	if target >= f.Total() {
		return f.n - 1
	}

	idx := 0
	for step := f.mask; step > 0; step >>= 1 {
		next := idx + step
		if next <= f.n && f.tree[next] <= target {
			target -= f.tree[next]
			idx = next
		}
	}
	return min(idx, f.n-1)
}
