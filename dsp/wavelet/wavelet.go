package wavelet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors returned by the wavelet transform.
var (
	ErrUnknownWavelet  = errors.New("wavelet: unknown wavelet")
	ErrSignalTooShort  = errors.New("wavelet: signal too short for one level")
	ErrInvalidLevel    = errors.New("wavelet: invalid level")
	ErrLengthMismatch  = errors.New("wavelet: coefficient length mismatch")
	ErrBadCoefficients = errors.New("wavelet: malformed coefficient vector")
)

// Wavelet is an orthogonal wavelet described by its four filters.
// Wavelets returned by this package are shared and must not be modified.
type Wavelet struct {
	Name  string
	DecLo []float64
	DecHi []float64
	RecLo []float64
	RecHi []float64
}

// Len returns the filter length.
func (w *Wavelet) Len() int {
	return len(w.DecLo)
}

// newWavelet derives the full filter bank from the decomposition low-pass:
// RecLo is DecLo reversed, RecHi[k] = (-1)^k·DecLo[k] and DecHi is RecHi
// reversed.
func newWavelet(name string, decLo []float64) *Wavelet {
	n := len(decLo)
	w := &Wavelet{
		Name:  name,
		DecLo: decLo,
		DecHi: make([]float64, n),
		RecLo: make([]float64, n),
		RecHi: make([]float64, n),
	}
	for k, v := range decLo {
		w.RecLo[n-1-k] = v
		if k%2 == 0 {
			w.RecHi[k] = v
		} else {
			w.RecHi[k] = -v
		}
	}
	for k, v := range w.RecHi {
		w.DecHi[n-1-k] = v
	}
	return w
}

// Predefined wavelets.
var (
	Haar  = newWavelet("haar", db1DecLo)
	DB2   = newWavelet("db2", db2DecLo)
	DB4   = newWavelet("db4", db4DecLo)
	Sym4  = newWavelet("sym4", sym4DecLo)
	Coif1 = newWavelet("coif1", coif1DecLo)
	Coif2 = newWavelet("coif2", coif2DecLo)
	Coif3 = newWavelet("coif3", coif3DecLo)
)

var library = map[string]*Wavelet{
	"haar":  Haar,
	"db1":   Haar,
	"db2":   DB2,
	"db4":   DB4,
	"sym4":  Sym4,
	"coif1": Coif1,
	"coif2": Coif2,
	"coif3": Coif3,
}

// Lookup returns the predefined wavelet with the given name. Names are
// case-insensitive; "db1" is an alias of "haar".
func Lookup(name string) (*Wavelet, error) {
	w, ok := library[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWavelet, name)
	}
	return w, nil
}

// Names returns the sorted names accepted by Lookup.
func Names() []string {
	names := make([]string, 0, len(library))
	for n := range library {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
