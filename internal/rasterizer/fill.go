package rasterizer

import "github.com/MeKo-Christian/refras/internal/basics"

// calcAlpha maps an integrated signed winding (256 per full wind, with
// the area correction already applied) to 8-bit coverage.
//
// Non-zero saturates the absolute winding; even-odd folds it through a
// triangle wave with period 512. The even-odd mask relies on & producing
// the unsigned bit pattern of negative windings.
func calcAlpha(rule basics.FillingRule, w int) int {
	if rule == basics.FillNonZero {
		if w < 0 {
			w = -w
		}
		if w > basics.A8Mask {
			w = basics.A8Mask
		}
		return w
	}

	w &= basics.A8Mask2
	if w > basics.A8Mask {
		w = basics.A8Mask2 - w
	}
	return w
}
