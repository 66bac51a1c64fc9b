// SPDX-License-Identifier: MIT

// Package linop - caller-side eigendecomposition cache.

package linop

import (
	"fmt"
	"sync"
)

const opMemoEigen = "MemoEigen"

// MemoEigen wraps an eigendecomposable operator and caches SymEig results.
// A cached decomposition with eigenvectors also serves values-only requests.
// Safe for concurrent use; the wrapped operator must not change.
type MemoEigen struct {
	Operator

	se           SymEigener
	mu           sync.Mutex
	full, values *EigenDecomposition
	computed     int
}

var (
	_ SymEigener  = (*MemoEigen)(nil)
	_ DiagEntrier = (*MemoEigen)(nil)
)

// NewMemoEigen wraps op.
// Errors: ErrNilOperator, ErrNotEigendecomposable.
func NewMemoEigen(op Operator) (*MemoEigen, error) {
	if isNilOperator(op) {
		return nil, opErrorf(opMemoEigen, ErrNilOperator)
	}
	se, ok := op.(SymEigener)
	if !ok {
		return nil, opErrorf(opMemoEigen, fmt.Errorf("%T: %w", op, ErrNotEigendecomposable))
	}

	return &MemoEigen{Operator: op, se: se}, nil
}

// SymEig returns the cached decomposition, computing it on first use.
// Callers must not mutate the returned Values.
func (m *MemoEigen) SymEig(eigenvectors bool) (*EigenDecomposition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.full != nil {
		if eigenvectors {
			return m.full, nil
		}
		return &EigenDecomposition{Values: m.full.Values}, nil
	}
	if !eigenvectors && m.values != nil {
		return m.values, nil
	}

	ed, err := m.se.SymEig(eigenvectors)
	if err != nil {
		return nil, opErrorf(opMemoEigen, err)
	}
	m.computed++
	if eigenvectors {
		m.full = ed
	} else {
		m.values = ed
	}

	return ed, nil
}

// Computations returns how many times the wrapped SymEig ran.
func (m *MemoEigen) Computations() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.computed
}

// DiagEntries returns the diagonal of the wrapped operator.
func (m *MemoEigen) DiagEntries() ([]float64, error) { return diagEntries(m.Operator) }
