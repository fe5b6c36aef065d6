// Package numeric provides the integer kernels behind the /bfhl operations and exposes
// them as a request-reply service.
package numeric

import (
	"errors"
	"math"
	"math/big"
)

// MaxFibonacciTerms is the largest term count whose sequence fits in int64.
// F(92) is the last representable term.
const MaxFibonacciTerms = 93

// MaxValues bounds the element count accepted by the prime, lcm and hcf operations
// so a single request cannot pin a CPU core.
const MaxValues = 100_000

// trialDivisionLimit is the largest value IsPrime checks by trial division, at most
// 512 loop iterations. A large int64 prime would take ~1.5e9.
const trialDivisionLimit = 1 << 20

// ErrOverflow is returned when a result does not fit in int64.
var ErrOverflow = errors.New("result overflows 64-bit integer")

// Fibonacci returns the first n terms of 0, 1, 1, 2, 3, 5, ...
// n <= 0 yields an empty, non-nil slice. n > MaxFibonacciTerms returns ErrOverflow.
func Fibonacci(n int64) ([]int64, error) {
	if n <= 0 {
		return []int64{}, nil
	}
	if n > MaxFibonacciTerms {
		return nil, ErrOverflow
	}
	if n == 1 {
		return []int64{0}, nil
	}

	fib := make([]int64, 2, n)
	fib[0], fib[1] = 0, 1
	for i := int64(2); i < n; i++ {
		fib = append(fib, fib[i-1]+fib[i-2])
	}
	return fib, nil
}

// IsPrime reports whether x is prime. Values up to trialDivisionLimit use trial
// division up to √x; larger ones use Baillie-PSW, which is exact below 2^64.
func IsPrime(x int64) bool {
	if x > trialDivisionLimit {
		return big.NewInt(x).ProbablyPrime(0)
	}
	return isPrimeTrial(x)
}

// isPrimeTrial tests x by trial division, skipping even divisors after 2.
func isPrimeTrial(x int64) bool {
	if x < 2 {
		return false
	}
	if x == 2 {
		return true
	}
	if x%2 == 0 {
		return false
	}
	// i <= x/i avoids overflowing i*i near MaxInt64
	for i := int64(3); i <= x/i; i += 2 {
		if x%i == 0 {
			return false
		}
	}
	return true
}

// FilterPrimes returns the primes in values, preserving their order.
func FilterPrimes(values []int64) []int64 {
	primes := make([]int64, 0, len(values))
	for _, v := range values {
		if IsPrime(v) {
			primes = append(primes, v)
		}
	}
	return primes
}

// GCD returns the greatest common divisor of a and b. GCD(a, 0) = |a|.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return abs(a)
}

// HCF folds GCD over values. An empty list yields 0.
func HCF(values []int64) int64 {
	if len(values) == 0 {
		return 0
	}
	acc := values[0]
	for _, v := range values[1:] {
		acc = GCD(acc, v)
	}
	return abs(acc)
}

// LCMPair returns |a*b| / GCD(a, b), or ErrOverflow when it does not fit in int64.
func LCMPair(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		return 0, ErrOverflow
	}
	a, b = abs(a), abs(b)
	q := a / GCD(a, b)
	if q > math.MaxInt64/b {
		return 0, ErrOverflow
	}
	return q * b, nil
}

// LCM folds LCMPair over values. An empty list yields 0.
func LCM(values []int64) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	acc := values[0]
	if len(values) == 1 {
		if acc == math.MinInt64 {
			return 0, ErrOverflow
		}
		return abs(acc), nil
	}
	for _, v := range values[1:] {
		var err error
		if acc, err = LCMPair(acc, v); err != nil {
			return 0, err
		}
	}
	return acc, nil
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
