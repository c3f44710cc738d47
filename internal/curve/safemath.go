package curve

import (
	"math/big"

	"cosmossdk.io/math"

	"poolExchange/internal/model"
)

// maxUint256 bounds every intermediate value.
var maxUint256 = new(big.Int).Lsh(big.NewInt(1), 256)

func newInt(v uint64) math.Int {
	return math.NewIntFromUint64(v)
}

func checked(result *big.Int, op string) (math.Int, error) {
	if result.Cmp(maxUint256) >= 0 {
		return math.Int{}, model.ErrArithmeticOverflow.Wrapf("%s exceeds 256 bits", op)
	}
	return math.NewIntFromBigInt(result), nil
}

func safeAdd(a, b math.Int) (math.Int, error) {
	return checked(new(big.Int).Add(a.BigInt(), b.BigInt()), "addition")
}

func safeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, model.ErrArithmeticOverflow.Wrapf("cannot subtract %s from %s", b, a)
	}
	return math.NewIntFromBigInt(new(big.Int).Sub(a.BigInt(), b.BigInt())), nil
}

func safeMul(a, b math.Int) (math.Int, error) {
	if a.IsZero() || b.IsZero() {
		return math.ZeroInt(), nil
	}
	return checked(new(big.Int).Mul(a.BigInt(), b.BigInt()), "multiplication")
}

// safeQuo divides rounding toward zero.
func safeQuo(a, b math.Int) (math.Int, error) {
	if b.IsZero() {
		return math.Int{}, model.ErrArithmeticOverflow.Wrap("division by zero")
	}
	return math.NewIntFromBigInt(new(big.Int).Quo(a.BigInt(), b.BigInt())), nil
}

// ceilQuo divides rounding up.
func ceilQuo(a, b math.Int) (math.Int, error) {
	if b.IsZero() {
		return math.Int{}, model.ErrArithmeticOverflow.Wrap("division by zero")
	}
	q, r := new(big.Int).QuoRem(a.BigInt(), b.BigInt(), new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return math.NewIntFromBigInt(q), nil
}

// mulDiv returns floor(a*b/c).
func mulDiv(a, b, c math.Int) (math.Int, error) {
	product, err := safeMul(a, b)
	if err != nil {
		return math.Int{}, err
	}
	return safeQuo(product, c)
}

func isqrt(a math.Int) math.Int {
	return math.NewIntFromBigInt(new(big.Int).Sqrt(a.BigInt()))
}

func toUint64(v math.Int, what string) (uint64, error) {
	if v.IsNegative() || !v.IsUint64() {
		return 0, model.ErrArithmeticOverflow.Wrapf("%s %s does not fit in u64", what, v)
	}
	return v.Uint64(), nil
}
