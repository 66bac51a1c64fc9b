// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/kronlin/matrix"
)

func TestOptionsDefaults(t *testing.T) {
	o := matrix.NewMatrixOptions()
	require.Equal(t, matrix.DefaultEpsilon, o.Epsilon())
	require.Equal(t, matrix.DefaultValidateNaNInf, o.ValidateNaNInf())
	require.Equal(t, matrix.DefaultPrecision, o.Precision())
}

func TestOptionsLastWriterWins(t *testing.T) {
	o := matrix.NewMatrixOptions(
		matrix.WithEpsilon(1e-3),
		matrix.WithNoValidateNaNInf(),
		nil,
		matrix.WithValidateNaNInf(),
		matrix.WithPrecision(matrix.Float32),
	)
	require.Equal(t, 1e-3, o.Epsilon())
	require.True(t, o.ValidateNaNInf())
	require.Equal(t, matrix.Float32, o.Precision())
}

func TestOptionsPanics(t *testing.T) {
	require.Panics(t, func() { matrix.WithEpsilon(-1) })
	require.Panics(t, func() { matrix.WithEpsilon(math.NaN()) })
	require.Panics(t, func() { matrix.WithPrecision(matrix.Precision(7)) })
}
