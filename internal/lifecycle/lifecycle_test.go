package lifecycle

import "testing"

func TestLifecycleString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		l    Lifecycle
		want string
	}{
		{PerRequest, "per-request"},
		{Singleton, "singleton"},
		{Lifecycle(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.l.String(); got != tt.want {
			t.Errorf("Lifecycle(%d).String() = %q, want %q", tt.l, got, tt.want)
		}
	}
}

func TestLifecycleDefaultIsPerRequest(t *testing.T) {
	t.Parallel()

	var l Lifecycle
	if l != PerRequest {
		t.Errorf("zero value should be PerRequest, got %s", l)
	}
	if !l.Valid() {
		t.Error("zero value should be valid")
	}
	if Lifecycle(-1).Valid() {
		t.Error("negative lifecycle should be invalid")
	}
}
