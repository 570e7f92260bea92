package matcher

import "github.com/gagliardetto/solana-go"

// vaultSet is a small fixed-capacity set of account addresses. Entry/exit
// candidate vault sets are built from at most two transfers, so a linear
// scan over a 2-element array is both simpler and faster than a map — this
// is a hot path per the Design Notes.
type vaultSet struct {
	items [2]solana.PublicKey
	n     int
}

func (s *vaultSet) add(pk solana.PublicKey) {
	for i := 0; i < s.n; i++ {
		if s.items[i].Equals(pk) {
			return
		}
	}
	if s.n < len(s.items) {
		s.items[s.n] = pk
		s.n++
	}
}

// intersects reports whether s and o share any element.
func (s vaultSet) intersects(o vaultSet) bool {
	for i := 0; i < s.n; i++ {
		for j := 0; j < o.n; j++ {
			if s.items[i].Equals(o.items[j]) {
				return true
			}
		}
	}
	return false
}
