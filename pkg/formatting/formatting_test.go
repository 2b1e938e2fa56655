package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/concierge/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"512", 512, false},
		{"1KB", 1024, false},
		{"1 mb", 1024 * 1024, false},
		{"1.5KB", 1536, false},
		{"", 0, true},
		{"ten", 0, true},
		{"5QB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		prec int
		want string
	}{
		{0, 1, "0 B"},
		{1023, 0, "1023 B"},
		{2048, 1, "2.0 KB"},
		{5 * 1024 * 1024, -1, "5 MB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.prec); got != tt.want {
			t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.prec, got, tt.want)
		}
	}
}

type scoreReply struct {
	Score int `json:"score"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"plain json", `{"score": 82}`, 82, false},
		{"fenced json", "Here you go:\n```json\n{\"score\": 64}\n```", 64, false},
		{"bare fence", "```\n{\"score\": 12}\n```", 12, false},
		{"prose", "I would rate this lead highly.", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[scoreReply](tt.content)
			if tt.wantErr {
				if !errors.Is(err, formatting.ErrParseFailed) {
					t.Errorf("error = %v, want ErrParseFailed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got.Score != tt.want {
				t.Errorf("score = %d, want %d", got.Score, tt.want)
			}
		})
	}
}
