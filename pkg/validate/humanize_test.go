package validate

import "testing"

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name", "Name"},
		{"first_name", "First Name"},
		{"date-of-birth", "Date Of Birth"},
		{"zip code", "Zip Code"},
		{"api_URL", "Api URL"},
		{"__leading__trailing__", "Leading Trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Humanize(tt.in); got != tt.want {
				t.Errorf("Humanize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHumanizeFieldName(t *testing.T) {
	got, ok := HumanizeFieldName(nil, "last_name")
	if !ok || got != "Last Name" {
		t.Errorf("HumanizeFieldName() = %q, %v; want %q, true", got, ok, "Last Name")
	}
}
