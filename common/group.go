package common

// Group is the unit of batched genesis work: an ordered batch of records
// of one category. Within a category, indices are assigned sequentially
// from 0 in encode order, and the decoder reproduces the exact same
// assignment, so a group index is a stable progress coordinate across
// process restarts.
type Group[T any] struct {
	Index uint64
	Data  []T
}

// MakeGroups splits records into groups of at most size records each,
// assigning sequential indices from 0. The last group may be short.
func MakeGroups[T any](records []T, size int) []Group[T] {
	if size <= 0 {
		panic("invalid group size")
	}
	var groups []Group[T]
	for i := 0; i < len(records); i += size {
		end := i + size
		if end > len(records) {
			end = len(records)
		}
		groups = append(groups, Group[T]{
			Index: uint64(len(groups)),
			Data:  records[i:end],
		})
	}
	return groups
}
