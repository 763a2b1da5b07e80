package geom

import "math"

// Place positions atom d bonded to c such that |cd| = bond, angle(b,c,d) =
// angle and dihedral(a,b,c,d) = dihedral (radians). This is the natural
// extension reference frame construction used to chain torsions.
func Place(a, b, c Vec3, bond, angle, dihedral float64) Vec3 {
	bc := c.Sub(b).Normalize()
	n := b.Sub(a).Cross(bc).Normalize()
	m := n.Cross(bc)
	d2 := Vec3{
		-bond * math.Cos(angle),
		bond * math.Sin(angle) * math.Cos(dihedral),
		bond * math.Sin(angle) * math.Sin(dihedral),
	}
	return c.Add(bc.Scale(d2[0])).Add(m.Scale(d2[1])).Add(n.Scale(d2[2]))
}

// Angle returns the bond angle a-b-c in radians.
func Angle(a, b, c Vec3) float64 {
	u := a.Sub(b).Normalize()
	v := c.Sub(b).Normalize()
	cos := u.Dot(v)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// Dihedral returns the torsion a-b-c-d in (−π, π].
func Dihedral(a, b, c, d Vec3) float64 {
	b0 := a.Sub(b)
	b1 := c.Sub(b).Normalize()
	b2 := d.Sub(c)
	v := b0.Sub(b1.Scale(b0.Dot(b1)))
	w := b2.Sub(b1.Scale(b2.Dot(b1)))
	x := v.Dot(w)
	y := b1.Cross(v).Dot(w)
	return math.Atan2(y, x)
}

// WrapAngle maps any angle into (−π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// Deg converts degrees to radians.
func Deg(d float64) float64 { return d * math.Pi / 180 }
