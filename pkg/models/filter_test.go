package models

import "testing"

func TestParseFilterMode(t *testing.T) {
	for _, mode := range FilterModes {
		got, err := ParseFilterMode(string(mode))
		if err != nil || got != mode {
			t.Errorf("ParseFilterMode(%q) = %q, %v", mode, got, err)
		}
	}
	for _, bad := range []string{"", "done", "ALL", " pending"} {
		if _, err := ParseFilterMode(bad); err == nil {
			t.Errorf("ParseFilterMode(%q) should fail", bad)
		}
	}
}

func TestFilterModeNext(t *testing.T) {
	tests := []struct {
		from, want FilterMode
	}{
		{FilterAll, FilterCompleted},
		{FilterCompleted, FilterPending},
		{FilterPending, FilterAll},
		{FilterMode("bogus"), FilterAll},
	}
	for _, tt := range tests {
		if got := tt.from.Next(); got != tt.want {
			t.Errorf("%q.Next() = %q, want %q", tt.from, got, tt.want)
		}
	}
}
