package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
)

// SystemMatrix holds one square instantaneous system R·x = V assembled from
// the Kirchhoff law equations. Rows are equations, columns are per-wire
// unknowns (current, or current rate for inductive wires). Indices are
// 1-based, matching the underlying solver.
type SystemMatrix struct {
	Size   int
	matrix *sparse.Matrix
	rhs    []float64
	config *sparse.Configuration
}

func NewSystem(size int) (*SystemMatrix, error) {
	config := &sparse.Configuration{
		Real:           true,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating %dx%d system matrix: %v", size, size, err)
	}

	m := &SystemMatrix{
		Size:   size,
		matrix: mat,
		rhs:    make([]float64, size+1), // 1-based indexing
		config: config,
	}
	m.setupElements()

	return m, nil
}

// setupElements pre-creates every element. The assembled systems are small
// and dense; pre-creation keeps the fill pattern stable across Clear/Factor
// cycles.
func (m *SystemMatrix) setupElements() {
	for i := 1; i <= m.Size; i++ {
		for j := 1; j <= m.Size; j++ {
			m.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (m *SystemMatrix) AddElement(i, j int, value float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		fmt.Printf("Warning: Matrix index out of bounds (i=%d, j=%d, size=%d)\n", i, j, m.Size)
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

func (m *SystemMatrix) AddRHS(i int, value float64) {
	if i <= 0 || i > m.Size {
		fmt.Printf("Warning: RHS index out of bounds (i=%d, size=%d)\n", i, m.Size)
		return
	}
	m.rhs[i] += value
}

func (m *SystemMatrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

// Solve factors and solves the assembled system, returning the 1-based
// solution vector. A singular system is an error.
func (m *SystemMatrix) Solve() ([]float64, error) {
	if err := m.matrix.Factor(); err != nil {
		return nil, fmt.Errorf("matrix factorization failed: %v", err)
	}
	solution, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return nil, fmt.Errorf("matrix solve failed: %v", err)
	}
	return solution, nil
}

func (m *SystemMatrix) RHS() []float64 { return m.rhs }

func (m *SystemMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
