package vm_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsvm/program"
	"tsvm/runtime"
	"tsvm/verify"
	"tsvm/vm"
)

func loadTestdata(t *testing.T, name string) *program.Program {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	defer f.Close()
	p, err := program.Parse(f)
	require.NoError(t, err)
	return p
}

// TestEndToEndScenarios covers the six end-to-end scenarios: identity,
// sum-of-range, bubble-sort, jump-out-of-range, stack-height-mismatch,
// runtime arity.
func TestEndToEndScenarios(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		p := loadTestdata(t, "identity.yaml")
		result, err := vm.Run(p, false, int64(7))
		require.NoError(t, err)
		assert.Equal(t, runtime.Int, result.Type)
		assert.Equal(t, int64(7), result.Int)
	})

	t.Run("sum of range", func(t *testing.T) {
		p := loadTestdata(t, "sum_range.yaml")
		result, err := vm.Run(p, false, int64(1), int64(5))
		require.NoError(t, err)
		assert.Equal(t, int64(15), result.Int)
	})

	t.Run("bubble sort", func(t *testing.T) {
		p := loadTestdata(t, "bubble_sort.yaml")
		result, err := vm.Run(p, false, []int64{5, 5, 1, -8, 2})
		require.NoError(t, err)
		assert.Equal(t, []int64{-8, 1, 2, 5, 5}, result.Ints)
	})

	t.Run("jump out of range", func(t *testing.T) {
		p := loadTestdata(t, "jump_out_of_range.yaml")
		err := verify.Verify(p)
		require.Error(t, err)
		var verr *verify.VerifyError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, verify.ErrJumpOutOfRange, verr.Kind)
	})

	t.Run("stack height mismatch", func(t *testing.T) {
		p := loadTestdata(t, "stack_height_mismatch.yaml")
		err := verify.Verify(p)
		require.Error(t, err)
		var verr *verify.VerifyError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, verify.ErrStackHeightMismatch, verr.Kind)
	})

	t.Run("runtime arity", func(t *testing.T) {
		p := loadTestdata(t, "sum_range.yaml")
		// sumRange declares two arguments; this calls with one. The
		// verifier never sees a mismatch — arity is a vm.Run/runtime
		// concern, not a static one.
		_, err := vm.Run(p, false, int64(1))
		require.Error(t, err)
		var rerr *runtime.RuntimeError
		require.ErrorAs(t, err, &rerr)
	})
}

func TestRunVerifiesFirst(t *testing.T) {
	p := loadTestdata(t, "jump_out_of_range.yaml")
	_, err := vm.Run(p, false)
	require.Error(t, err)
	var verr *verify.VerifyError
	assert.ErrorAs(t, err, &verr)
}
