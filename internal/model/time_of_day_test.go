package model

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{input: "09:00", want: TimeOfDay{Hour: 9}},
		{input: "09:30:00", want: TimeOfDay{Hour: 9, Minute: 30}}, // секунды отбрасываются
		{input: "00:00", want: TimeOfDay{}},
		{input: "23:59", want: TimeOfDay{Hour: 23, Minute: 59}},
		{input: " 10:15 ", want: TimeOfDay{Hour: 10, Minute: 15}},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "-1:00", wantErr: true},
		{input: "12", wantErr: true},
		{input: "12:00:00:00", wantErr: true},
		{input: "ab:cd", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) = %v, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTimeOfDayStrings(t *testing.T) {
	v := TimeOfDay{Hour: 9, Minute: 5}
	if got := v.String(); got != "09:05" {
		t.Errorf("String() = %q, want 09:05", got)
	}
	if got := v.DBString(); got != "09:05:00" {
		t.Errorf("DBString() = %q, want 09:05:00", got)
	}
}

func TestTimeOfDayAddMinutes(t *testing.T) {
	v := TimeOfDay{Hour: 10, Minute: 45}

	next, ok := v.AddMinutes(30)
	if !ok {
		t.Fatal("AddMinutes(30) must succeed")
	}
	if got := next.String(); got != "11:15" {
		t.Errorf("AddMinutes(30) = %s, want 11:15", got)
	}

	// Ровно до конца суток допустимо
	if _, ok := (TimeOfDay{Hour: 23, Minute: 30}).AddMinutes(30); !ok {
		t.Error("23:30 + 30m must reach end of day")
	}

	// Выход за сутки
	if _, ok := (TimeOfDay{Hour: 23, Minute: 45}).AddMinutes(30); ok {
		t.Error("23:45 + 30m must overflow")
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	a := TimeOfDay{Hour: 9}
	b := TimeOfDay{Hour: 9, Minute: 30}

	if !a.Before(b) {
		t.Error("09:00 must be before 09:30")
	}
	if b.Before(a) {
		t.Error("09:30 must not be before 09:00")
	}
	if a.Before(a) {
		t.Error("Before must be strict")
	}
	if !a.Equal(TimeOfDay{Hour: 9, Minute: 0}) {
		t.Error("09:00 must equal 09:00")
	}
}
