package alertpanel

import "testing"

func TestHumanize(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "just now"},
		{999, "just now"},
		{1_000, "1 second"},
		{59_000, "59 seconds"},
		{60_000, "1 minute"},
		{90_000, "1 minute"},
		{2 * 3_600_000, "2 hours"},
		{86_400_000 + 3*3_600_000, "1 day"},
		{3 * 86_400_000, "3 days"},
		{365 * 86_400_000, "1 year"},
		{2*365*86_400_000 + 5_000, "2 years"},
		{-5_000, "just now"},
	}
	for _, tc := range cases {
		if got := Humanize(tc.ms); got != tc.want {
			t.Fatalf("Humanize(%d): want %q got %q", tc.ms, tc.want, got)
		}
	}
}
