package kernel

import "math/big"

// Fibonacci returns the first n terms of the sequence starting 0, 1.
// n <= 0 yields an empty, non-nil slice.
func Fibonacci(n int) []*big.Int {
	if n <= 0 {
		return []*big.Int{}
	}
	seq := make([]*big.Int, 0, n)
	seq = append(seq, big.NewInt(0))
	if n == 1 {
		return seq
	}
	seq = append(seq, big.NewInt(1))
	for len(seq) < n {
		next := new(big.Int).Add(seq[len(seq)-1], seq[len(seq)-2])
		seq = append(seq, next)
	}
	return seq
}
