package roulette

// Payout computes the amount credited for a settled bet. The stake was
// debited at placement, so the return is the full payout, not profit.
// The rule is floor(amount * base / |covered|) on a hit, 0 on a miss;
// the integer truncation is part of the rule.
func Payout(amount int64, covered []int, rolled int, base int64) int64 {
	hit := false
	for _, n := range covered {
		if n == rolled {
			hit = true
			break
		}
	}
	if !hit {
		return 0
	}
	return amount * base / int64(len(covered))
}
