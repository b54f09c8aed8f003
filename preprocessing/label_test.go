package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

func TestLabelEncoder(t *testing.T) {
	le := NewLabelEncoder()

	_, err := le.Transform([]string{"Adelie"})
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))

	species := []string{"Gentoo", "Adelie", "Chinstrap", "Adelie", "Gentoo"}
	codes, err := le.FitTransform(species)
	require.NoError(t, err)

	assert.Equal(t, []string{"Adelie", "Chinstrap", "Gentoo"}, le.Classes())
	assert.Equal(t, []float64{2, 0, 1, 0, 2}, mat.Col(nil, 0, codes))

	back, err := le.InverseTransform(codes)
	require.NoError(t, err)
	assert.Equal(t, species, back)

	_, err = le.Transform([]string{"Emperor"})
	var ve *errors.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, err = le.InverseTransform(mat.NewDense(1, 1, []float64{3}))
	assert.Error(t, err)

	assert.ErrorIs(t, NewLabelEncoder().Fit(nil), errors.ErrEmptyData)
}
