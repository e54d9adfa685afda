package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/c360/ringbuf/errors"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"default", DefaultConfig(), nil},
		{"empty policy", Config{Capacity: 1}, nil},
		{"with limit", Config{Capacity: 4, MaxCapacity: 4, ShrinkPolicy: KeepNewest}, nil},
		{"zero capacity", Config{Capacity: 0}, cerrors.ErrInvalidCapacity},
		{"negative limit", Config{Capacity: 4, MaxCapacity: -1}, cerrors.ErrInvalidCapacity},
		{"capacity over limit", Config{Capacity: 8, MaxCapacity: 4}, cerrors.ErrInvalidCapacity},
		{"unknown policy", Config{Capacity: 4, ShrinkPolicy: "keep_some"}, cerrors.ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, cerrors.IsInvalid(err))
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	rb, err := NewFromConfig[int](Config{Capacity: 4, MaxCapacity: 6, ShrinkPolicy: KeepNewest})
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		rb.PushBack(i)
	}
	require.NoError(t, rb.Resize(2))
	assert.Equal(t, []int{3, 4}, rb.Slice())

	err = rb.Reserve(7)
	assert.ErrorIs(t, err, cerrors.ErrAllocationFailure)
	require.NoError(t, rb.Reserve(6))
}

func TestNewFromConfig_OptionsApplyAfterConfig(t *testing.T) {
	rb, err := NewFromConfig[int](Config{Capacity: 2, ShrinkPolicy: KeepNewest},
		WithShrinkPolicy[int](KeepOldest))
	require.NoError(t, err)
	assert.Equal(t, KeepOldest, rb.opts.shrinkPolicy)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	rb, err := NewFromConfig[int](Config{})
	require.Error(t, err)
	assert.Nil(t, rb)
	assert.ErrorIs(t, err, cerrors.ErrInvalidCapacity)
}
