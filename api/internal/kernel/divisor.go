package kernel

import "math/big"

// GCD is the Euclidean gcd of |a| and |b|; GCD(0, 0) is 0.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	for y.Sign() != 0 {
		x.Mod(x, y)
		x, y = y, x
	}
	return x
}

// LCMPair is |a*b| / gcd(a, b), or 0 when either operand is 0.
func LCMPair(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	p := new(big.Int).Mul(a, b)
	p.Abs(p)
	return p.Quo(p, GCD(a, b))
}

// HCF folds GCD over xs from the left, seeded with the first element.
func HCF(xs []int64) *big.Int {
	return fold(xs, GCD)
}

// LCM folds LCMPair over xs from the left, seeded with the first element.
func LCM(xs []int64) *big.Int {
	return fold(xs, LCMPair)
}

func fold(xs []int64, op func(a, b *big.Int) *big.Int) *big.Int {
	if len(xs) == 0 {
		return new(big.Int)
	}
	acc := big.NewInt(xs[0])
	for _, v := range xs[1:] {
		acc = op(acc, big.NewInt(v))
	}
	return acc
}
