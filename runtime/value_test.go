package runtime

import "testing"

func TestTypeIsSubtypeOf(t *testing.T) {
	tests := []struct {
		name string
		t    Type
		of   Type
		want bool
	}{
		{"int is subtype of int", Int, Int, true},
		{"int is not subtype of float", Int, Float, false},
		{"intarray is subtype of array", IntArray, Array, true},
		{"floatarray is subtype of array", FloatArray, Array, true},
		{"intarray is not subtype of floatarray", IntArray, FloatArray, false},
		{"floatarray is not subtype of intarray", FloatArray, IntArray, false},
		{"array is not subtype of intarray", Array, IntArray, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.t.IsSubtypeOf(tt.of); got != tt.want {
				t.Errorf("%s.IsSubtypeOf(%s) = %v, want %v", tt.t, tt.of, got, tt.want)
			}
		})
	}
}

func TestValueIsNone(t *testing.T) {
	if !ZeroOf(Int).IsNone() {
		t.Error("ZeroOf(Int) should be none")
	}
	if VInt(0).IsNone() {
		t.Error("VInt(0) should not be none, despite the zero payload")
	}
}

func TestValueClonePreservesArrayIdentity(t *testing.T) {
	arr, err := NewArray(Int, 3)
	if err != nil {
		t.Fatal(err)
	}
	v := VIntArray(arr)
	clone := v.Clone()
	if clone.Arr != v.Arr {
		t.Error("Clone of an array reference must share the underlying *ArrayObject")
	}
}

func TestValueEquals(t *testing.T) {
	if !VInt(5).Equals(VInt(5)) {
		t.Error("VInt(5) should equal VInt(5)")
	}
	if VInt(5).Equals(VInt(6)) {
		t.Error("VInt(5) should not equal VInt(6)")
	}
	if VInt(5).Equals(VFloat(5)) {
		t.Error("values of different kinds are never equal")
	}
}
