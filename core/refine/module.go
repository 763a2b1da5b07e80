package refine

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"heavybuilder/core/embed"
	"heavybuilder/core/geom"
	"heavybuilder/core/nn"
)

// Phase is the refinement state machine position.
type Phase int

const (
	Initialized Phase = iota
	Iterating
	Converged
)

func (p Phase) String() string {
	switch p {
	case Initialized:
		return "initialized"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	}
	return "unknown"
}

// State is an immutable snapshot between iterations.
type State struct {
	Phase     Phase
	Iteration int        // completed iterations
	Single    *mat.Dense // N × SingleDim
	Pair      *mat.Dense // (N·N) × PairDim, normalised once and shared by all snapshots
	Frames    []geom.Rigid
	N         int
}

// Result is the terminal output of Run.
type Result struct {
	Frames        []geom.Rigid
	Single        *mat.Dense // final single representation
	InitialSingle *mat.Dense // single representation entering the first iteration
	// Trace holds the frames after every iteration; Trace[k] follows iteration k+1.
	Trace [][]geom.Rigid
}

// Module is the structure refinement module bound to read-only weights.
type Module struct {
	cfg Config

	singleNorm, pairNorm nn.LayerNorm
	inputProj            nn.Linear

	q, k, v, qPts, kPts, vPts nn.Linear
	pairBias                  nn.Linear
	headWeights               []float64
	out                       nn.Linear
	ipaNorm                   nn.LayerNorm

	trans1, trans2, trans3 nn.Linear
	transNorm              nn.LayerNorm

	backbone nn.Linear
}

func New(p nn.Params, c Config) (*Module, error) {
	if c.Iterations < 1 {
		return nil, errors.New("refine: Iterations must be ≥ 1")
	}
	if c.Heads < 1 || c.HeadDim < 1 || c.QueryPoints < 1 || c.ValuePoints < 1 {
		return nil, errors.New("refine: heads, head dim and point counts must be ≥ 1")
	}
	m := &Module{cfg: c}
	hc := c.Heads * c.HeadDim
	var err error
	load := func(dst *nn.Linear, name string, in, out int) {
		if err == nil {
			*dst, err = nn.LoadLinear(p, name, in, out)
		}
	}
	norm := func(dst *nn.LayerNorm, name string, dim int) {
		if err == nil {
			*dst, err = nn.LoadLayerNorm(p, name, dim)
		}
	}
	norm(&m.singleNorm, "refine/single_norm", c.SingleDim)
	norm(&m.pairNorm, "refine/pair_norm", c.PairDim)
	load(&m.inputProj, "refine/input_proj", c.SingleDim, c.SingleDim)
	load(&m.q, "refine/ipa/q", c.SingleDim, hc)
	load(&m.k, "refine/ipa/k", c.SingleDim, hc)
	load(&m.v, "refine/ipa/v", c.SingleDim, hc)
	load(&m.qPts, "refine/ipa/q_pts", c.SingleDim, c.Heads*c.QueryPoints*3)
	load(&m.kPts, "refine/ipa/k_pts", c.SingleDim, c.Heads*c.QueryPoints*3)
	load(&m.vPts, "refine/ipa/v_pts", c.SingleDim, c.Heads*c.ValuePoints*3)
	load(&m.pairBias, "refine/ipa/pair_bias", c.PairDim, c.Heads)
	load(&m.out, "refine/ipa/out", c.outFeatures(), c.SingleDim)
	norm(&m.ipaNorm, "refine/ipa_norm", c.SingleDim)
	load(&m.trans1, "refine/transition/1", c.SingleDim, c.SingleDim)
	load(&m.trans2, "refine/transition/2", c.SingleDim, c.SingleDim)
	load(&m.trans3, "refine/transition/3", c.SingleDim, c.SingleDim)
	norm(&m.transNorm, "refine/transition_norm", c.SingleDim)
	load(&m.backbone, "refine/backbone", c.SingleDim, 6)
	if err != nil {
		return nil, err
	}
	if m.headWeights, err = nn.Vector(p, "refine/ipa/head_weights", c.Heads); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Module) Config() Config { return m.cfg }

// Init builds the starting snapshot: identity frames at the origin.
func (m *Module) Init(rep embed.Representation) State {
	frames := make([]geom.Rigid, rep.N)
	for i := range frames {
		frames[i] = geom.IdentityRigid()
	}
	return State{
		Phase:  Initialized,
		Single: m.inputProj.Forward(m.singleNorm.Forward(rep.Single)),
		Pair:   m.pairNorm.Forward(rep.Pair),
		Frames: frames,
		N:      rep.N,
	}
}

// Run executes exactly Config.Iterations steps.
func (m *Module) Run(rep embed.Representation) (Result, error) {
	st := m.Init(rep)
	res := Result{InitialSingle: st.Single, Trace: make([][]geom.Rigid, 0, m.cfg.Iterations)}
	for st.Phase != Converged {
		next, err := m.Step(st)
		if err != nil {
			return Result{}, err
		}
		st = next
		res.Trace = append(res.Trace, st.Frames)
	}
	res.Frames = st.Frames
	res.Single = st.Single
	return res, nil
}

// Step performs one refinement iteration and returns the next snapshot.
func (m *Module) Step(st State) (State, error) {
	if st.Phase == Converged {
		return st, errors.New("refine: step after convergence")
	}
	it := st.Iteration + 1

	signal := m.Signal(st)
	s := m.ipaNorm.Forward(nn.Add(st.Single, signal))
	t := m.trans3.Forward(nn.ReLU(m.trans2.Forward(nn.ReLU(m.trans1.Forward(s)))))
	s = m.transNorm.Forward(nn.Add(s, t))
	if r := nn.FirstNonFinite(s); r >= 0 {
		return st, &NumericalDivergenceError{Iteration: it, Residue: r, Quantity: "single"}
	}

	upd := m.backbone.Forward(s)
	frames := make([]geom.Rigid, st.N)
	for i := range frames {
		u := upd.RawRowView(i)
		delta := geom.Rigid{
			Rot:   geom.Quat{W: 1, X: u[0], Y: u[1], Z: u[2]}.Mat3(),
			Trans: geom.Vec3{u[3], u[4], u[5]}.Scale(m.cfg.PositionScale),
		}
		f := st.Frames[i].Compose(delta).Orthonormalize()
		if !f.IsFinite() {
			return st, &NumericalDivergenceError{Iteration: it, Residue: i, Quantity: "frame"}
		}
		if d := f.Rot.Det(); math.Abs(d-1) > 1e-6 {
			return st, &NumericalDivergenceError{Iteration: it, Residue: i, Quantity: "rotation"}
		}
		frames[i] = f
	}

	next := State{
		Phase:     Iterating,
		Iteration: it,
		Single:    s,
		Pair:      st.Pair,
		Frames:    frames,
		N:         st.N,
	}
	if it >= m.cfg.Iterations {
		next.Phase = Converged
	}
	return next, nil
}
