package geom

// Rigid is a proper rigid-body transform x ↦ Rot·x + Trans.
type Rigid struct {
	Rot   Mat3
	Trans Vec3
}

// IdentityRigid is the uninformative starting frame: no rotation, origin.
func IdentityRigid() Rigid { return Rigid{Rot: Identity()} }

func (r Rigid) Apply(v Vec3) Vec3 { return r.Rot.MulVec(v).Add(r.Trans) }

// InvertApply maps a global point into the local frame of r.
func (r Rigid) InvertApply(v Vec3) Vec3 { return r.Rot.T().MulVec(v.Sub(r.Trans)) }

// Compose returns r∘o: apply o first, then r.
func (r Rigid) Compose(o Rigid) Rigid {
	return Rigid{Rot: r.Rot.Mul(o.Rot), Trans: r.Rot.MulVec(o.Trans).Add(r.Trans)}
}

func (r Rigid) Inverse() Rigid {
	rt := r.Rot.T()
	return Rigid{Rot: rt, Trans: rt.MulVec(r.Trans).Scale(-1)}
}

// Orthonormalize re-projects the rotation onto SO(3).
func (r Rigid) Orthonormalize() Rigid {
	r.Rot = r.Rot.Orthonormalize()
	return r
}

func (r Rigid) IsFinite() bool { return r.Rot.IsFinite() && r.Trans.IsFinite() }

// ApplyAll transforms every point in pts into a new slice.
func (r Rigid) ApplyAll(pts []Vec3) []Vec3 {
	out := make([]Vec3, len(pts))
	for i, p := range pts {
		out[i] = r.Apply(p)
	}
	return out
}
