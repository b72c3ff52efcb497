package math

import "testing"

const eps = 1e-4

func near(a, b float32) bool {
	d := a - b
	return d < eps && d > -eps
}

func vecNear(a, b Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

// transform applies m to the point v (row vector) with the perspective divide.
func transform(v Vec3, m Mat4) Vec3 {
	d := m.Data
	x := v.X*d[0] + v.Y*d[4] + v.Z*d[8] + d[12]
	y := v.X*d[1] + v.Y*d[5] + v.Z*d[9] + d[13]
	z := v.X*d[2] + v.Y*d[6] + v.Z*d[10] + d[14]
	w := v.X*d[3] + v.Y*d[7] + v.Z*d[11] + d[15]
	if w != 0 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

func TestVec3Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	if got := a.Add(b); !vecNear(got, NewVec3(5, 7, 9)) {
		t.Errorf("Add = %+v", got)
	}
	if got := b.Sub(a); !vecNear(got, NewVec3(3, 3, 3)) {
		t.Errorf("Sub = %+v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %f, want 32", got)
	}
	if got := NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)); !vecNear(got, NewVec3(0, 0, 1)) {
		t.Errorf("Cross = %+v, want +Z", got)
	}
	if got := NewVec3(3, 0, 4).Normalized(); !near(got.Length(), 1) {
		t.Errorf("Normalized length = %f", got.Length())
	}
	if got := NewVec3Zero().Normalized(); !vecNear(got, NewVec3Zero()) {
		t.Errorf("normalizing zero should stay zero, got %+v", got)
	}
}

func TestMat4MulIdentity(t *testing.T) {
	m := NewMat4Orthographic(-2, 2, -1, 1, 0.1, 10)
	if got := m.Mul(NewMat4Identity()); got != m {
		t.Errorf("M * I != M")
	}
	if got := NewMat4Identity().Mul(m); got != m {
		t.Errorf("I * M != M")
	}
}

func TestLookAtPlacesTargetInFront(t *testing.T) {
	view := NewMat4LookAt(NewVec3(0, 0, 5), NewVec3Zero(), NewVec3Up())
	got := transform(NewVec3Zero(), view)
	if !vecNear(got, NewVec3(0, 0, -5)) {
		t.Errorf("origin in view space = %+v, want (0,0,-5)", got)
	}
}

func TestOrthographicMapsBoxToClipCube(t *testing.T) {
	m := NewMat4Orthographic(-10, 10, -5, 5, 1, 21)
	tests := []struct {
		in   Vec3
		want Vec3
	}{
		{NewVec3(10, 5, -1), NewVec3(1, 1, -1)},
		{NewVec3(-10, -5, -21), NewVec3(-1, -1, 1)},
		{NewVec3(0, 0, -11), NewVec3(0, 0, 0)},
	}
	for _, tt := range tests {
		if got := transform(tt.in, m); !vecNear(got, tt.want) {
			t.Errorf("transform(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestPerspectiveNearFar(t *testing.T) {
	m := NewMat4Perspective(DegToRad(90), 1, 1, 10)
	if got := transform(NewVec3(0, 0, -1), m); !near(got.Z, -1) {
		t.Errorf("near plane depth = %f, want -1", got.Z)
	}
	if got := transform(NewVec3(0, 0, -10), m); !near(got.Z, 1) {
		t.Errorf("far plane depth = %f, want 1", got.Z)
	}
	// 90 degrees: the frustum edge at distance d is d
	if got := transform(NewVec3(2, 0, -2), m); !near(got.X, 1) {
		t.Errorf("frustum edge x = %f, want 1", got.X)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5,0,3) = %d", got)
	}
	if got := Clamp(float32(-1), 0, 1); got != 0 {
		t.Errorf("Clamp(-1,0,1) = %f", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("Clamp(0.5,0,1) = %f", got)
	}
	if !near(DegToRad(180), K_PI) {
		t.Error("DegToRad(180) != pi")
	}
}
