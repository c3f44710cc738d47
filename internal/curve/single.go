package curve

import (
	"cosmossdk.io/math"

	"poolExchange/internal/model"
)

// Pool tokens track sqrt(A*B). Moving only A from reserve R to R' scales supply S by
// sqrt(R'/R), so the pool-token delta is S*sqrt(R'/R) - S. Both directions are evaluated
// exactly: floor(sqrt(S^2*R'/R)) is an integer square root, and the half-unit comparison
// 4*S^2*R' against (2n+1)^2*R decides rounding without a precision scale.

// DepositSingle returns round(supply * (sqrt((reserve + amountIn) / reserve) - 1)).
func DepositSingle(amountIn, reserve, supply uint64) (uint64, error) {
	if reserve == 0 {
		return 0, model.ErrZeroReserve.Wrap("deposit into empty reserve")
	}
	newReserve, err := safeAdd(newInt(reserve), newInt(amountIn))
	if err != nil {
		return 0, err
	}
	root, err := scaledRoot(newInt(supply), newReserve, newInt(reserve), true)
	if err != nil {
		return 0, err
	}
	minted, err := safeSub(root, newInt(supply))
	if err != nil {
		return 0, err
	}
	return toUint64(minted, "pool tokens")
}

// WithdrawSingle returns round(supply * (1 - sqrt((reserve - amountOut) / reserve))).
func WithdrawSingle(amountOut, reserve, supply uint64) (uint64, error) {
	if reserve == 0 {
		return 0, model.ErrZeroReserve.Wrap("withdraw from empty reserve")
	}
	if amountOut >= reserve {
		return 0, model.ErrReserveExhausted.Wrapf("withdraw %d from reserve %d", amountOut, reserve)
	}
	// S - y rounds half up exactly when y rounds half down.
	root, err := scaledRoot(newInt(supply), newInt(reserve-amountOut), newInt(reserve), false)
	if err != nil {
		return 0, err
	}
	burned, err := safeSub(newInt(supply), root)
	if err != nil {
		return 0, err
	}
	return toUint64(burned, "pool tokens")
}

// scaledRoot rounds y = supply*sqrt(num/den) to an integer, ties up when halfUp and down otherwise.
func scaledRoot(supply, num, den math.Int, halfUp bool) (math.Int, error) {
	squared, err := safeMul(supply, supply)
	if err != nil {
		return math.Int{}, err
	}
	scaled, err := safeMul(squared, num)
	if err != nil {
		return math.Int{}, err
	}
	q, err := safeQuo(scaled, den)
	if err != nil {
		return math.Int{}, err
	}
	n := isqrt(q)

	// y >= n + 1/2  <=>  4*S^2*num >= (2n+1)^2*den
	lhs, err := safeMul(scaled, math.NewInt(4))
	if err != nil {
		return math.Int{}, err
	}
	odd, err := safeAdd(n.MulRaw(2), math.OneInt())
	if err != nil {
		return math.Int{}, err
	}
	oddSquared, err := safeMul(odd, odd)
	if err != nil {
		return math.Int{}, err
	}
	rhs, err := safeMul(oddSquared, den)
	if err != nil {
		return math.Int{}, err
	}

	cmp := lhs.BigInt().Cmp(rhs.BigInt())
	if cmp > 0 || (halfUp && cmp == 0) {
		n = n.AddRaw(1)
	}
	return n, nil
}
