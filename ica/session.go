package ica

import (
	"fmt"

	"github.com/cwbudde/algo-eeg/linalg"
)

// Result is the outcome of one ICA run on n variables and T observations.
type Result struct {
	// W is the n×n unmixing matrix: S = W·(X - means).
	W *linalg.Matrix
	// A is the n×n mixing matrix: X - means ≈ A·S.
	A *linalg.Matrix
	// S holds the zero-mean sources, one per row.
	S *linalg.Matrix
	// SourceMeans satisfies A·SourceMeans = observation means.
	SourceMeans []float64
	// Iterations is the FastICA iteration count or the JADE sweep count.
	// Reaching the configured maximum is not an error.
	Iterations int
	// ClampedEigenvalues counts negative eigenvalues replaced by their
	// absolute value during whitening and orthogonalization. A non-zero
	// value indicates a near-singular covariance.
	ClampedEigenvalues int
}

// Finite reports whether W, A, S and the source means are free of NaN and Inf.
func (r *Result) Finite() bool {
	if r == nil || !r.W.IsFinite() || !r.A.IsFinite() || !r.S.IsFinite() {
		return false
	}
	m := linalg.Matrix{Rows: len(r.SourceMeans), Cols: 1, LD: len(r.SourceMeans), AllocCols: 1, Data: r.SourceMeans}
	return m.IsFinite()
}

type sessionState int

const (
	stateUninitialized sessionState = iota
	stateReady
	stateClosed
)

// Session owns the workspace of one ICA configuration. The zero value is not
// usable; create sessions with NewSession.
type Session struct {
	state  sessionState
	params Params
	ws     *workspace
}

// workspace holds every buffer sized by the observation shape.
type workspace struct {
	z     *linalg.Matrix
	means []float64
	wh    *whitener
	fast  *fastICA
	jade  *jade
}

// NewSession returns an uninitialized session.
func NewSession() *Session {
	return &Session{}
}

// Params returns the active configuration.
func (s *Session) Params() Params {
	return s.params
}

// Init validates p and allocates workspace. Calling Init again with
// identical parameters is a no-op; different parameters reallocate.
func (s *Session) Init(p Params) error {
	if s.state == stateClosed {
		return ErrClosed
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if s.state == stateReady && s.params == p {
		return nil
	}
	s.params = p
	s.ws = nil
	if p.NumVariables > 0 {
		s.ws = newWorkspace(p)
	}
	s.state = stateReady
	return nil
}

func newWorkspace(p Params) *workspace {
	ws := &workspace{
		z:     linalg.New(p.NumVariables, p.NumObservations),
		means: make([]float64, p.NumVariables),
		wh:    newWhitener(p.NumVariables, p.NumObservations),
	}
	switch p.Implementation {
	case JADE:
		ws.jade = newJADE(p)
	default:
		ws.fast = newFastICA(p)
	}
	return ws
}

// Shutdown releases the workspace. The session cannot be used afterwards.
func (s *Session) Shutdown() {
	s.ws = nil
	s.state = stateClosed
}

// Run decomposes the observations x (one variable per row). When the shape
// of x differs from the configured dimensions the session is re-initialized
// for the new shape. The returned Result does not share storage with the
// session.
func (s *Session) Run(x *linalg.Matrix) (*Result, error) {
	switch s.state {
	case stateUninitialized:
		return nil, ErrNotInitialized
	case stateClosed:
		return nil, ErrClosed
	}
	if err := x.Validate(); err != nil {
		return nil, err
	}
	if x.Rows == 0 || x.Cols < 2 {
		return nil, fmt.Errorf("%w: %d×%d observations", linalg.ErrInvalidShape, x.Rows, x.Cols)
	}
	if s.ws == nil || x.Rows != s.params.NumVariables || x.Cols != s.params.NumObservations {
		if err := s.Init(s.params.withDims(x.Rows, x.Cols)); err != nil {
			return nil, err
		}
	}

	ws := s.ws
	if err := RemoveMean(ws.z, ws.means, x); err != nil {
		return nil, err
	}
	if err := ws.wh.whiten(ws.z, false); err != nil {
		return nil, err
	}

	res := &Result{ClampedEigenvalues: ws.wh.clamped}
	var (
		rot  *linalg.Matrix
		err  error
		iter int
	)
	switch s.params.Implementation {
	case JADE:
		rot, iter, err = ws.jade.run(ws.wh.z)
		if err == nil {
			err = finish(res, rot, true, ws)
		}
	default:
		var clamped int
		rot, iter, clamped, err = ws.fast.run(ws.wh.z)
		res.ClampedEigenvalues += clamped
		if err == nil {
			err = finish(res, rot, false, ws)
		}
	}
	if err != nil {
		return nil, err
	}
	res.Iterations = iter
	return res, nil
}

// finish derives W, A, S and the source means from the orthogonal rotation.
// FastICA's rotation unmixes by rows (S = R·Zw); JADE's by columns
// (S = Rᵀ·Zw).
func finish(res *Result, rot *linalg.Matrix, columns bool, ws *workspace) error {
	n, t := ws.wh.z.Rows, ws.wh.z.Cols
	res.W = linalg.New(n, n)
	res.A = linalg.New(n, n)
	res.S = linalg.New(n, t)
	res.SourceMeans = make([]float64, n)

	var err error
	if columns {
		err = firstErr(
			linalg.MultiplyTransA(res.S, rot, ws.wh.z),
			linalg.MultiplyTransA(res.W, rot, ws.wh.w),
			linalg.Multiply(res.A, ws.wh.dw, rot),
		)
	} else {
		err = firstErr(
			linalg.Multiply(res.S, rot, ws.wh.z),
			linalg.Multiply(res.W, rot, ws.wh.w),
			linalg.MultiplyTransB(res.A, ws.wh.dw, rot),
		)
	}
	if err != nil {
		return fmt.Errorf("ica: %w", err)
	}
	return linalg.MatVec(res.SourceMeans, res.W, ws.means)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
