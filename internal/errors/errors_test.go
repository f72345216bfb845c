package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	t.Parallel()

	err := Newf("threshold %f out of range", 1.5).
		Component(ComponentPipeline).
		Category(CategoryValidation).
		Context("field", "noiseGateThreshold").
		Build()

	require.Error(t, err)
	assert.Equal(t, "threshold 1.500000 out of range", err.Error())
	assert.Equal(t, ComponentPipeline, err.Component)
	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, "noiseGateThreshold", err.Context["field"])
	assert.False(t, err.Timestamp.IsZero())
}

func TestErrorBuilder_Defaults(t *testing.T) {
	t.Parallel()

	err := New(nil).Build()
	require.Error(t, err)
	assert.Equal(t, ComponentUnknown, err.Component)
	assert.Equal(t, CategoryGeneric, err.Category)
}

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("recording sink is stopped")
	err := New(sentinel).
		Component(ComponentRecord).
		Category(CategoryState).
		Build()

	assert.True(t, Is(err, sentinel))
	assert.True(t, IsCategory(err, CategoryState))
	assert.False(t, IsCategory(err, CategoryValidation))

	var ee *EnhancedError
	require.True(t, As(err, &ee))
	assert.Equal(t, ComponentRecord, ee.Component)
}
