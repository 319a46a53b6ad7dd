package annotate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/semunits/store"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"generic", errors.New("boom"), ExitFailure},
		{"validation", NewPreconditionError(errors.New("bad model")), ExitValidation},
		{"missing input", missingInput("a.cellml"), ExitMissing},
		{"wrapped missing input", fmt.Errorf("run: %w", missingInput("a.cellml")), ExitMissing},
		{"config", NewConfigError(errors.New("unknown format")), ExitConfig},
		{"conflict", NewConflictError(store.ErrOutputExists), ExitConflict},
		{"wrapped conflict", fmt.Errorf("save: %w", NewConflictError(store.ErrOutputExists)), ExitConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorTypes_Unwrap(t *testing.T) {
	base := errors.New("cause")

	assert.ErrorIs(t, NewPreconditionError(base), base)
	assert.ErrorIs(t, NewConfigError(base), base)
	assert.ErrorIs(t, NewConflictError(base), base)
	assert.True(t, IsPrecondition(missingInput("x")))
	assert.False(t, IsConfig(missingInput("x")))
	assert.Equal(t, "cause", NewConflictError(base).Error())
}
