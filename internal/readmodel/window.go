package readmodel

// Window returns the inclusive page-number range shown by the compact
// paginator, centered on the current page where possible.
func Window(total, current, max int) (int, int) {
	if max < 1 {
		max = 1
	}
	if total <= max {
		return 1, total
	}

	half := max / 2
	start := current - half
	end := current + half
	if max%2 == 0 {
		end--
	}

	if start < 1 {
		return 1, max
	}
	if end > total {
		return total - max + 1, total
	}
	return start, end
}
