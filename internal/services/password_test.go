package services

import "testing"

func TestScorePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		score    int
		label    string
	}{
		{"empty awaits input", "", 0, "Awaiting Input"},
		{"short lowercase", "abc", 0, "Vulnerable"},
		{"length only", "abcdef", 1, "Weak"},
		{"length and uppercase", "Abcdef", 2, "Moderate"},
		{"length uppercase digit", "Abcdef1", 3, "Secure"},
		{"all four criteria", "Abcdef1!", 4, "Unbreakable"},
		{"short but varied", "A1!", 3, "Secure"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, label := ScorePassword(tc.password)
			if score != tc.score {
				t.Errorf("expected score %d, got %d", tc.score, score)
			}
			if label != tc.label {
				t.Errorf("expected label %q, got %q", tc.label, label)
			}
		})
	}
}

func TestScorePasswordSpaceCountsAsSymbol(t *testing.T) {
	score, _ := ScorePassword("abc def")
	if score != 2 {
		t.Errorf("expected score 2 for length plus symbol, got %d", score)
	}
}
