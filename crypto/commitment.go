package crypto

// FoldRoot accumulates one commitment leaf into a running root. The
// accumulation is order sensitive, so a category root is only meaningful
// when the leaves were folded in the exact order their records were
// applied. An empty accumulator is the zero hash.
func FoldRoot(acc, leaf Hash) Hash {
	return Blake3Hash(append(acc[:], leaf[:]...))
}

// FoldLeaves folds a full leaf sequence from an empty accumulator.
func FoldLeaves(leaves []Hash) Hash {
	var acc Hash
	for _, leaf := range leaves {
		acc = FoldRoot(acc, leaf)
	}
	return acc
}
