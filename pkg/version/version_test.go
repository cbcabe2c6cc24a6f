package version

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Firmware
		wantErr bool
	}{
		{in: "08.06.01", want: Firmware{Major: 8, Minor: 6, Patch: 1}},
		{in: "1.2", want: Firmware{Major: 1, Minor: 2}},
		{in: "12.0.255", want: Firmware{Major: 12, Minor: 0, Patch: 255}},
		{in: "8", wantErr: true},
		{in: "8.6.1.0", wantErr: true},
		{in: "8..1", wantErr: true},
		{in: "a.b", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	fw := Firmware{Major: 8, Minor: 6, Patch: 1}
	if got := fw.String(); got != "08.06.01" {
		t.Errorf("String() = %q, want 08.06.01", got)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Firmware
		want int
	}{
		{Firmware{8, 6, 1}, Firmware{8, 6, 1}, 0},
		{Firmware{8, 6, 0}, Firmware{8, 6, 1}, -1},
		{Firmware{8, 7, 0}, Firmware{8, 6, 9}, 1},
		{Firmware{9, 0, 0}, Firmware{8, 9, 9}, 1},
	}

	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAtLeast(t *testing.T) {
	base := Firmware{Major: 8, Minor: 6}

	if !(Firmware{Major: 8, Minor: 6, Patch: 1}).AtLeast(base) {
		t.Error("newer patch should satisfy AtLeast")
	}
	if (Firmware{Major: 8, Minor: 5, Patch: 9}).AtLeast(base) {
		t.Error("older minor should not satisfy AtLeast")
	}
}
