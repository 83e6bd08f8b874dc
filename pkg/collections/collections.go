package collections

// Apply applies the applicator function to each item in the input slice.
func Apply[T, V any](items []T, applicator func(T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(item)
	}
	return result
}

// Window returns up to n items starting at from. Out-of-range bounds are
// clipped, so the result may be shorter than n or empty.
func Window[T any](items []T, from, n int) []T {
	if from < 0 {
		from = 0
	}
	if n <= 0 || from >= len(items) {
		return nil
	}
	end := from + n
	if end > len(items) || end < from {
		end = len(items)
	}
	return items[from:end]
}
