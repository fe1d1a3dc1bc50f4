package textdiff

// Op is one step of an edit script.
type Op int

const (
	// Keep: the line is present in both sequences; both cursors advance.
	Keep Op = iota
	// Remove: the line exists only on the left; the left cursor advances.
	Remove
	// Add: the line exists only on the right; the right cursor advances.
	Add
)

func (o Op) String() string {
	switch o {
	case Keep:
		return "keep"
	case Remove:
		return "remove"
	case Add:
		return "add"
	}
	return "unknown"
}

// EditScript aligns a and b with a longest-common-subsequence table and returns a minimal
// script covering every line of both sequences in order. When several minimal scripts exist
// the one removing before adding at each divergence point is chosen. Common leading and
// trailing lines never enter the table.
func EditScript(a, b []string) []Op {
	x, y := intern(a, b)
	ops := make([]Op, 0, len(x)+len(y))

	prefix := 0
	for prefix < len(x) && prefix < len(y) && x[prefix] == y[prefix] {
		ops = append(ops, Keep)
		prefix++
	}
	x, y = x[prefix:], y[prefix:]

	suffix := 0
	for suffix < len(x) && suffix < len(y) && x[len(x)-1-suffix] == y[len(y)-1-suffix] {
		suffix++
	}
	x, y = x[:len(x)-suffix], y[:len(y)-suffix]

	n, m := len(x), len(y)
	w := m + 1
	// lcs[i*w+j] = length of the LCS of x[i:] and y[j:].
	lcs := make([]int32, (n+1)*w)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if x[i] == y[j] {
				lcs[i*w+j] = lcs[(i+1)*w+j+1] + 1
			} else {
				lcs[i*w+j] = max(lcs[(i+1)*w+j], lcs[i*w+j+1])
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case x[i] == y[j]:
			ops = append(ops, Keep)
			i++
			j++
		case lcs[(i+1)*w+j] >= lcs[i*w+j+1]:
			ops = append(ops, Remove)
			i++
		default:
			ops = append(ops, Add)
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, Remove)
	}
	for ; j < m; j++ {
		ops = append(ops, Add)
	}
	for ; suffix > 0; suffix-- {
		ops = append(ops, Keep)
	}
	return ops
}

// intern replaces lines by small integer ids so the table fill compares ints, not strings.
func intern(a, b []string) ([]int, []int) {
	ids := make(map[string]int, len(a))
	conv := func(lines []string) []int {
		out := make([]int, len(lines))
		for i, l := range lines {
			id, ok := ids[l]
			if !ok {
				id = len(ids)
				ids[l] = id
			}
			out[i] = id
		}
		return out
	}
	return conv(a), conv(b)
}
