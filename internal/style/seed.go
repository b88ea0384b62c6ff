package style

import "unicode/utf16"

// MaxSeed is the largest seed GenerateSeed can return.
const MaxSeed = 2147483646

const seedModulus = 2147483647

// GenerateSeed derives a seed in [0, MaxSeed] from content and a base. The
// accumulator is a 31x polynomial hash over UTF-16 code units with 32-bit
// wraparound, so results match across platforms bit for bit.
func GenerateSeed(content string, base int64) int64 {
	acc := base
	for _, unit := range utf16.Encode([]rune(content)) {
		shifted := int64(int32(acc) << 5)
		acc = int64(int32(shifted - acc + int64(unit)))
	}
	if acc < 0 {
		acc = -acc
	}
	return acc % seedModulus
}
