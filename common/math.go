package common

// Log2 computes n where the leading bit of a is at position n
func Log2(a int) int {

	res := 0
	for i := a; i > 1; i /= 2 {
		res++
	}
	return res
}

// Log2Ceil computes the smallest n such that 2^n >= a
func Log2Ceil(a int) int {
	res := Log2(a)
	if 1<<res < a {
		res++
	}
	return res
}
