package wire

import (
	"testing"
	"time"
)

func TestTimeShortestLength(t *testing.T) {
	tests := []struct {
		name string
		t    Time
		size int
	}{
		{"blank", BlankTime, 1},
		{"midnight", Time{}, 3},
		{"seconds", Time{Hour: 1, Second: 1}, 4},
		{"millis", Time{Millisecond: 1}, 6},
		{"micros", Time{Microsecond: 1}, 8},
		{"nanos", Time{Nanosecond: 1}, 10},
	}
	buf := make([]byte, 10)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := PutTime(buf, tt.t)
			if err != nil || n != tt.size {
				t.Fatalf("PutTime = %d, %v; want %d", n, err, tt.size)
			}
			got, m, err := GetTime(buf[:n])
			if err != nil || got != tt.t || m != n {
				t.Errorf("GetTime = %v, %d, %v; want %v", got, m, err, tt.t)
			}
		})
	}
}

func TestDateTimeFromGoTime(t *testing.T) {
	ts := time.Date(2025, time.November, 3, 16, 45, 12, 123456789, time.UTC)
	dt := DateTimeOf(ts)
	if dt.Time.Millisecond != 123 || dt.Time.Microsecond != 456 || dt.Time.Nanosecond != 789 {
		t.Fatalf("sub-second split = %v", dt.Time)
	}

	buf := make([]byte, DateTimeSize(dt))
	n, err := PutDateTime(buf, dt)
	if err != nil || n != len(buf) {
		t.Fatalf("PutDateTime = %d, %v", n, err)
	}
	got, _, err := GetDateTime(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.GoTime().Equal(ts) {
		t.Errorf("GoTime = %v, want %v", got.GoTime(), ts)
	}
	if got.String() != "2025-11-03T16:45:12.123456789" {
		t.Errorf("String = %q", got.String())
	}
}

func TestBlankDate(t *testing.T) {
	if !(Date{}).IsBlank() || (Date{Year: 1}).IsBlank() {
		t.Error("IsBlank mismatch")
	}
	if (Date{}).String() != "blank" {
		t.Errorf("String = %q", Date{}.String())
	}
}
