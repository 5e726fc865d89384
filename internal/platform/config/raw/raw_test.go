package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LOG_FORMAT", " json ")
	t.Setenv("LOG_BLANK", "   ")

	c := New().Prefix("LOG_")
	if got := c.Get("FORMAT", "console"); got != "json" {
		t.Fatalf("Get(FORMAT) = %q, want json", got)
	}
	if got := c.Get("BLANK", "console"); got != "console" {
		t.Fatalf("Get(BLANK) = %q, want default", got)
	}
	if got := c.Get("MISSING", "x"); got != "x" {
		t.Fatalf("Get(MISSING) = %q, want default", got)
	}
	if got := New().Prefix("LOG_").Prefix("FOR").Get("MAT", ""); got != "json" {
		t.Fatalf("nested prefix = %q, want json", got)
	}
}

func TestBool(t *testing.T) {
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"1", false, true},
		{"TRUE", false, true},
		{"yes", false, true},
		{"on", false, true},
		{"0", true, false},
		{"no", true, false},
		{"off", true, false},
		{"maybe", true, true},
	}
	for _, tc := range cases {
		t.Setenv("X_FLAG", tc.val)
		if got := New().Prefix("X_").Bool("FLAG", tc.def); got != tc.want {
			t.Errorf("Bool(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
		}
	}
}

func TestInt(t *testing.T) {
	cases := []struct {
		val  string
		want int
	}{
		{"", 7},
		{"12", 12},
		{" 3 ", 3},
		{"-1", 7},
		{"12a", 7},
	}
	for _, tc := range cases {
		t.Setenv("X_N", tc.val)
		if got := New().Prefix("X_").Int("N", 7); got != tc.want {
			t.Errorf("Int(%q) = %d, want %d", tc.val, got, tc.want)
		}
	}
}
