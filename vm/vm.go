// Package vm is the boundary between host Go values and the typed
// bytecode world: it converts arguments in, runs the verifier and the
// interpreter, and converts the result back out.
package vm

import (
	"tsvm/interpreter"
	"tsvm/program"
	"tsvm/runtime"
	"tsvm/verify"
)

// Result is a host-facing view of a completed run: the typed return
// value, flattened to whichever Go type fits it.
type Result struct {
	Type   runtime.Type
	Int    int64
	Float  float64
	Ints   []int64
	Floats []float64
}

// Run verifies p, then interprets it against args, converting between
// host values and the runtime's tagged-union Value on the way in and
// out. Run always verifies before it interprets — there is no way to
// skip verification from this entry point, matching the reference
// tool's "verify is not optional for execution" stance from spec §5.
func Run(p *program.Program, trace bool, args ...any) (Result, error) {
	if err := verify.Verify(p); err != nil {
		return Result{}, err
	}

	values, err := convertArgs(p, args)
	if err != nil {
		return Result{}, err
	}

	interp := interpreter.New(trace)
	ret, err := interp.Run(p, values)
	if err != nil {
		return Result{}, err
	}
	return toResult(ret), nil
}

func convertArgs(p *program.Program, args []any) ([]runtime.Value, error) {
	if len(args) != p.ArgumentCount {
		return nil, runtime.NewRuntimeError("expected %d arguments, got %d", p.ArgumentCount, len(args))
	}
	values := make([]runtime.Value, len(args))
	for i, a := range args {
		want := p.LocalAt(i).Type
		v, err := convertArg(want, a)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func convertArg(want runtime.Type, a any) (runtime.Value, error) {
	switch want {
	case runtime.Int:
		n, ok := a.(int64)
		if !ok {
			if m, ok2 := a.(int); ok2 {
				n, ok = int64(m), true
			}
		}
		if !ok {
			return runtime.Value{}, runtime.NewRuntimeError("expected an int argument, got %T", a)
		}
		return runtime.VInt(n), nil

	case runtime.Float:
		f, ok := a.(float64)
		if !ok {
			return runtime.Value{}, runtime.NewRuntimeError("expected a float argument, got %T", a)
		}
		return runtime.VFloat(f), nil

	case runtime.IntArray:
		xs, ok := a.([]int64)
		if !ok {
			return runtime.Value{}, runtime.NewRuntimeError("expected an []int64 argument, got %T", a)
		}
		return newArrayValue(runtime.Int, len(xs), func(i int) runtime.Value { return runtime.VInt(xs[i]) })

	case runtime.FloatArray:
		xs, ok := a.([]float64)
		if !ok {
			return runtime.Value{}, runtime.NewRuntimeError("expected an []float64 argument, got %T", a)
		}
		return newArrayValue(runtime.Float, len(xs), func(i int) runtime.Value { return runtime.VFloat(xs[i]) })

	default:
		return runtime.Value{}, runtime.NewRuntimeError("unsupported argument type %s", want)
	}
}

func newArrayValue(elementType runtime.Type, n int, at func(int) runtime.Value) (runtime.Value, error) {
	// runtime.NewArray rejects size < 1 — this VM has no representation
	// for a zero-length array, so a zero-length host slice is a
	// RuntimeError at the boundary rather than a silently-wrong 1-slot
	// array with a never-written sentinel element.
	if n == 0 {
		return runtime.Value{}, runtime.NewRuntimeError("cannot pass a zero-length slice as an array argument: this VM has no zero-length array representation")
	}
	arr, err := runtime.NewArray(elementType, int64(n))
	if err != nil {
		return runtime.Value{}, err
	}
	for i := 0; i < n; i++ {
		if err := arr.Set(int64(i), at(i)); err != nil {
			return runtime.Value{}, err
		}
	}
	if elementType == runtime.Int {
		return runtime.VIntArray(arr), nil
	}
	return runtime.VFloatArray(arr), nil
}

func toResult(v runtime.Value) Result {
	switch v.Kind {
	case runtime.Int:
		return Result{Type: runtime.Int, Int: v.I}
	case runtime.Float:
		return Result{Type: runtime.Float, Float: v.F}
	case runtime.IntArray:
		n := int(v.Arr.Length())
		ints := make([]int64, n)
		for i := 0; i < n; i++ {
			e, _ := v.Arr.Get(int64(i))
			ints[i] = e.I
		}
		return Result{Type: runtime.IntArray, Ints: ints}
	case runtime.FloatArray:
		n := int(v.Arr.Length())
		floats := make([]float64, n)
		for i := 0; i < n; i++ {
			e, _ := v.Arr.Get(int64(i))
			floats[i] = e.F
		}
		return Result{Type: runtime.FloatArray, Floats: floats}
	default:
		return Result{Type: v.Kind}
	}
}
