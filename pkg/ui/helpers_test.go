package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer label", 8, "a longe…"},
		{"日本語のタイトル", 7, "日本語…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		cursor, n, height int
		start, end        int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 5, 0, 5},
		{10, 20, 5, 8, 13},
		{19, 20, 5, 15, 20},
	}
	for _, tt := range tests {
		s, e := window(tt.cursor, tt.n, tt.height)
		if s != tt.start || e != tt.end {
			t.Errorf("window(%d, %d, %d) = %d, %d, want %d, %d", tt.cursor, tt.n, tt.height, s, e, tt.start, tt.end)
		}
	}
}

func TestTruncateSuffixWiderThanWidth(t *testing.T) {
	if got := truncateRunesHelper("abcdef", 2, "..."); got != ".." {
		t.Errorf("got %q, want %q", got, "..")
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("2021", 6); got != "2021  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("toolong", 3); got != "toolong" {
		t.Errorf("padRight should not cut: %q", got)
	}
}
