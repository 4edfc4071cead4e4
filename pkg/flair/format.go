package flair

import "strconv"

var units = []struct {
	suffix    string
	threshold float64
}{
	{"T", 1e12},
	{"B", 1e9},
	{"M", 1e6},
	{"K", 1e3},
}

// FormatCount renders n with one decimal and the largest fitting unit suffix,
// e.g. 1234567 -> "1.2M". Counts below one thousand are rendered as is.
func FormatCount(n uint64) string {
	f := float64(n)
	for _, u := range units {
		if f >= u.threshold {
			return strconv.FormatFloat(f/u.threshold, 'f', 1, 64) + u.suffix
		}
	}
	return strconv.FormatUint(n, 10)
}
