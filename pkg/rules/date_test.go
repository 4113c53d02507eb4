package rules

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	wantTime := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      any
		want    time.Time
		wantErr bool
	}{
		{name: "time", in: want, want: want},
		{name: "time pointer", in: &wantTime, want: wantTime},
		{name: "date only", in: "2024-03-09", want: want},
		{name: "rfc3339", in: "2024-03-09T14:30:00Z", want: wantTime},
		{name: "local date-time", in: "2024-03-09T14:30:00", want: wantTime},
		{name: "space separated", in: "2024-03-09 14:30:00", want: wantTime},
		{name: "toml local date", in: toml.LocalDate{Year: 2024, Month: 3, Day: 9}, want: want},
		{
			name: "toml local date-time",
			in: toml.LocalDateTime{
				LocalDate: toml.LocalDate{Year: 2024, Month: 3, Day: 9},
				LocalTime: toml.LocalTime{Hour: 14, Minute: 30},
			},
			want: wantTime,
		},
		{name: "bad string", in: "March 9th", wantErr: true},
		{name: "number", in: 20240309, wantErr: true},
		{name: "nil pointer", in: (*time.Time)(nil), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrNotADate) {
					t.Fatalf("ParseDate() error = %v, want ErrNotADate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate() unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
