package summarizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBullets(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "dot bullets",
			content: "• First point\n• Second point\n• Third point",
			want:    []string{"First point", "Second point", "Third point"},
		},
		{
			name:    "dash and asterisk markers",
			content: "- Uses dashes\n* And asterisks",
			want:    []string{"Uses dashes", "And asterisks"},
		},
		{
			name:    "preamble before bullets is dropped",
			content: "Here is the summary:\n• Only this survives",
			want:    []string{"Only this survives"},
		},
		{
			name:    "blank lines between bullets",
			content: "• One\n\n• Two\n\n",
			want:    []string{"One", "Two"},
		},
		{
			name:    "plain prose falls back to lines",
			content: "The model ignored the format.\nIt wrote two sentences instead.",
			want:    []string{"The model ignored the format.", "It wrote two sentences instead."},
		},
		{
			name:    "bare markers are skipped",
			content: "• \n• Real content",
			want:    []string{"Real content"},
		},
		{
			name:    "empty input",
			content: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBullets(tt.content)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseBullets() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"short string untouched", "hello", 10, "hello"},
		{"exact limit untouched", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"zero limit untouched", "hello", 0, "hello"},
		{"multibyte rune not split", "日本語", 4, "日"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}
