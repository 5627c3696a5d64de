package cityscape

// composite copies source into dst and blends tint over it wherever edges is
// nonzero. Edge alpha, clamped to [0, 1], is the blend weight; edge rgb
// divided by edge alpha is the per-object palette color that modulates the
// tint. The blend is a straight-alpha "over":
//
//	dst = dst*(1-a) + tint*palette*a
//
// A zero edge buffer leaves source unchanged.
func composite(source, edges *Frame, tint Color, dst *Frame) {
	copy(dst.Pix, source.Pix)
	tr, tg, tb, ta := float32(tint.R), float32(tint.G), float32(tint.B), float32(tint.A)
	for i := 0; i < len(dst.Pix); i += 4 {
		ea := edges.Pix[i+3]
		if ea <= 0 {
			continue
		}
		a := min(ea, 1)
		pr := min(edges.Pix[i]/ea, 1)
		pg := min(edges.Pix[i+1]/ea, 1)
		pb := min(edges.Pix[i+2]/ea, 1)
		inv := 1 - a
		dst.Pix[i] = dst.Pix[i]*inv + tr*pr*a
		dst.Pix[i+1] = dst.Pix[i+1]*inv + tg*pg*a
		dst.Pix[i+2] = dst.Pix[i+2]*inv + tb*pb*a
		dst.Pix[i+3] = dst.Pix[i+3]*inv + ta*a
	}
}
