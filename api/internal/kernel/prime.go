package kernel

import "math/big"

// trialLimit bounds the values checked by plain 6k±1 trial division.
// Above it ProbablyPrime is used, which is exact for inputs below 2^64.
const trialLimit = 1 << 32

func IsPrime(v int64) bool {
	if v <= 1 {
		return false
	}
	if v <= 3 {
		return true
	}
	if v%2 == 0 || v%3 == 0 {
		return false
	}
	if v >= trialLimit {
		return big.NewInt(v).ProbablyPrime(0)
	}
	for i := int64(5); i*i <= v; i += 6 {
		if v%i == 0 || v%(i+2) == 0 {
			return false
		}
	}
	return true
}

// FilterPrimes keeps the primes of xs in their original order, duplicates included.
func FilterPrimes(xs []int64) []int64 {
	out := make([]int64, 0, len(xs))
	for _, v := range xs {
		if IsPrime(v) {
			out = append(out, v)
		}
	}
	return out
}
