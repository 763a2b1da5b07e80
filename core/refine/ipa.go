package refine

import (
	"gonum.org/v1/gonum/mat"

	"heavybuilder/core/geom"
	"heavybuilder/core/nn"
)

// Signal computes the invariant point attention update for a snapshot. Only
// relative geometry enters: point distances are frame-independent and the
// attended value points are expressed in each residue's local frame, so a
// global rigid transform of st.Frames leaves the result unchanged.
func (m *Module) Signal(st State) *mat.Dense {
	c := m.cfg
	n := st.N
	H, C, Pq, Pv, Cz := c.Heads, c.HeadDim, c.QueryPoints, c.ValuePoints, c.PairDim
	wL, wC, scalarScale := c.logitWeights()

	q := m.q.Forward(st.Single)
	k := m.k.Forward(st.Single)
	v := m.v.Forward(st.Single)
	qPts := globalPoints(m.qPts.Forward(st.Single), st.Frames, H*Pq)
	kPts := globalPoints(m.kPts.Forward(st.Single), st.Frames, H*Pq)
	vPts := globalPoints(m.vPts.Forward(st.Single), st.Frames, H*Pv)
	bias := m.pairBias.Forward(st.Pair)

	gamma := make([]float64, H)
	for h := range gamma {
		gamma[h] = nn.Softplus(m.headWeights[h]) * wC / 2
	}

	feat := mat.NewDense(n, c.outFeatures(), nil)
	logits := make([]float64, n)
	for i := 0; i < n; i++ {
		qi := q.RawRowView(i)
		row := feat.RawRowView(i)
		for h := 0; h < H; h++ {
			for j := 0; j < n; j++ {
				kj := k.RawRowView(j)
				var dot float64
				for x := 0; x < C; x++ {
					dot += qi[h*C+x] * kj[h*C+x]
				}
				var d2 float64
				for p := 0; p < Pq; p++ {
					d := qPts[i][h*Pq+p].Sub(kPts[j][h*Pq+p])
					d2 += d.Dot(d)
				}
				logits[j] = wL * (scalarScale*dot + bias.At(i*n+j, h) - gamma[h]*d2)
			}
			nn.Softmax(logits)

			// Feature layout per residue: [scalar H*C | points H*Pv*3 | norms H*Pv | pair H*Cz].
			scalar := row[h*C : (h+1)*C]
			pts := row[H*C+h*Pv*3 : H*C+(h+1)*Pv*3]
			norms := row[H*C+H*Pv*3+h*Pv : H*C+H*Pv*3+(h+1)*Pv]
			pair := row[H*C+H*Pv*4+h*Cz : H*C+H*Pv*4+(h+1)*Cz]

			acc := make([]geom.Vec3, Pv)
			for j := 0; j < n; j++ {
				a := logits[j]
				vj := v.RawRowView(j)
				for x := 0; x < C; x++ {
					scalar[x] += a * vj[h*C+x]
				}
				for p := 0; p < Pv; p++ {
					acc[p] = acc[p].Add(vPts[j][h*Pv+p].Scale(a))
				}
				zij := st.Pair.RawRowView(i*n + j)
				for x := 0; x < Cz; x++ {
					pair[x] += a * zij[x]
				}
			}
			for p := 0; p < Pv; p++ {
				local := st.Frames[i].InvertApply(acc[p])
				copy(pts[p*3:p*3+3], local[:])
				norms[p] = local.Norm()
			}
		}
	}
	return m.out.Forward(feat)
}

// globalPoints reads per-residue point sets laid out as consecutive xyz
// triples and maps each through its residue frame.
func globalPoints(local *mat.Dense, frames []geom.Rigid, count int) [][]geom.Vec3 {
	out := make([][]geom.Vec3, len(frames))
	for i, f := range frames {
		row := local.RawRowView(i)
		pts := make([]geom.Vec3, count)
		for p := range pts {
			pts[p] = f.Apply(geom.Vec3{row[3*p], row[3*p+1], row[3*p+2]})
		}
		out[i] = pts
	}
	return out
}
