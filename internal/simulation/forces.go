package simulation

import "math"

// lcg is a linear congruential generator for reproducible jiggle
type lcg uint32

func (r *lcg) next() float64 {
	*r = lcg(1664525*uint32(*r) + 1013904223)
	return float64(*r) / 4294967296
}

// jiggle returns a tiny offset used to separate coincident nodes
func (s *Simulation) jiggle() float64 {
	return (s.rng.next() - 0.5) * 1e-6
}

// applyLink pulls linked nodes toward the link distance. The correction is
// split by degree so hubs move less than leaves.
func (s *Simulation) applyLink() {
	p := s.preset
	if p.LinkStrength == 0 {
		return
	}
	nodes := s.g.Nodes
	for _, e := range s.g.Edges {
		src, tgt := nodes[e.From], nodes[e.To]
		x := tgt.X + tgt.VX - src.X - src.VX
		y := tgt.Y + tgt.VY - src.Y - src.VY
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - p.LinkDistance) / l * s.alpha * p.LinkStrength
		x *= l
		y *= l

		ds, dt := float64(s.g.Degree(e.From)), float64(s.g.Degree(e.To))
		bias := ds / (ds + dt)
		tgt.VX -= x * bias
		tgt.VY -= y * bias
		src.VX += x * (1 - bias)
		src.VY += y * (1 - bias)
	}
}

// applyManyBody applies pairwise charge with inverse-distance falloff and a
// minimum distance of one unit.
func (s *Simulation) applyManyBody() {
	charge := s.preset.Charge
	if charge == 0 {
		return
	}
	nodes := s.g.Nodes
	for i, a := range nodes {
		for j, b := range nodes {
			if i == j {
				continue
			}
			x := b.X - a.X
			y := b.Y - a.Y
			if x == 0 {
				x = s.jiggle()
			}
			if y == 0 {
				y = s.jiggle()
			}
			l := x*x + y*y
			if l < 1 {
				l = math.Sqrt(l)
			}
			w := charge * s.alpha / l
			a.VX += x * w
			a.VY += y * w
		}
	}
}

// applyCenter translates every node so the mean position moves toward the center
func (s *Simulation) applyCenter() {
	strength := s.preset.CenterStrength
	nodes := s.g.Nodes
	if strength == 0 || len(nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range nodes {
		sx += n.X
		sy += n.Y
	}
	n := float64(len(nodes))
	sx = (sx/n - s.cx) * strength
	sy = (sy/n - s.cy) * strength
	for _, node := range nodes {
		node.X -= sx
		node.Y -= sy
	}
}

// applyCollide separates overlapping nodes using their predicted positions.
// The smaller node of a pair takes the larger share of the push.
func (s *Simulation) applyCollide() {
	strength := s.preset.CollisionStrength
	if strength == 0 {
		return
	}
	nodes := s.g.Nodes
	for i := 0; i < len(nodes); i++ {
		a := nodes[i]
		ri := s.radii[i]
		ri2 := ri * ri
		xi, yi := a.X+a.VX, a.Y+a.VY
		for j := i + 1; j < len(nodes); j++ {
			b := nodes[j]
			rj := s.radii[j]
			r := ri + rj
			x := xi - b.X - b.VX
			y := yi - b.Y - b.VY
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = s.jiggle()
				l += x * x
			}
			if y == 0 {
				y = s.jiggle()
				l += y * y
			}
			l = math.Sqrt(l)
			l = (r - l) / l * strength
			x *= l
			y *= l
			rj2 := rj * rj
			share := rj2 / (ri2 + rj2)
			a.VX += x * share
			a.VY += y * share
			b.VX -= x * (1 - share)
			b.VY -= y * (1 - share)
		}
	}
}

// applyAxis pulls nodes toward the center lines
func (s *Simulation) applyAxis() {
	strength := s.preset.AxisStrength
	if strength == 0 {
		return
	}
	k := strength * s.alpha
	for _, n := range s.g.Nodes {
		n.VX += (s.cx - n.X) * k
		n.VY += (s.cy - n.Y) * k
	}
}
