package services

// Password strength is scored over four criteria: length of at least six,
// an uppercase letter, a digit, and a symbol.

const (
	labelAwaiting    = "Awaiting Input"
	labelVulnerable  = "Vulnerable"
	labelWeak        = "Weak"
	labelModerate    = "Moderate"
	labelSecure      = "Secure"
	labelUnbreakable = "Unbreakable"
)

var strengthLabels = []string{
	labelVulnerable,
	labelWeak,
	labelModerate,
	labelSecure,
	labelUnbreakable,
}

// ScorePassword returns a 0-4 strength score and its label. The empty
// password scores 0 and is labelled as awaiting input rather than vulnerable.
func ScorePassword(password string) (int, string) {
	if password == "" {
		return 0, labelAwaiting
	}

	score := 0
	if len(password) >= 6 {
		score++
	}

	hasUpper := false
	hasDigit := false
	hasSymbol := false
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			// lowercase letters score nothing on their own
		default:
			hasSymbol = true
		}
	}

	if hasUpper {
		score++
	}
	if hasDigit {
		score++
	}
	if hasSymbol {
		score++
	}

	return score, strengthLabels[score]
}
