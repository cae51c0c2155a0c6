package intent

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	amountClarification  = "Please specify an amount to send."
	paymentClarification = "Please specify who you want to pay and how much."
)

// Keyword tables for the cascade. Matching is plain substring containment, so
// "rs" also hits words like "first"; the lists are kept as they are because
// classification results depend on them exactly.
var (
	strongBalanceTerms  = []string{"balance", "how much", "kitna", "kitna paisa"}
	genericBalanceTerms = []string{"check", "account", "money", "available"}
	paymentVerbs        = []string{"send", "pay", "transfer", "bhejo"}

	historyTerms = []string{
		"history", "transaction", "transactions", "recent", "last",
		"previous", "payments", "records", "statement",
	}
	paymentTerms = []string{
		"send", "pay", "transfer", "bhejo", "payment",
		"rupees", "rs", "amount", "rupaye", "de do",
	}
)

// Keyword tables for the scored vote, used only when the cascade found nothing.
var (
	balanceScoreTerms = []string{"balance", "money", "account", "check", "available"}
	historyScoreTerms = []string{"history", "transaction", "statement", "record", "payment"}
	paymentScoreTerms = []string{"send", "pay", "transfer", "bhejo", "amount", "rupees"}
)

var (
	// (a) verb-led: "send 500 to ravi", "pay ravi", "transfer money to ravi"
	// (b) particle: "ravi ko 500 bhejo"
	namePattern = regexp.MustCompile(
		`(?:send|pay|transfer|bhejo)\s+(?:money\s+)?(?:(?:₹|rs\.?)?\s*\d+\s*(?:rupees|rupaye|rs)?\s+)?(?:to\s+)?([a-z]\w*)` +
			`|(\w+)\s+ko`)
	amountPattern = regexp.MustCompile(`\d+`)

	fillerNames = map[string]bool{
		"money": true, "to": true, "rs": true, "rupees": true, "rupaye": true,
		"the": true, "amount": true,
	}
)

// Fallback classifies a transcript with the local keyword rules. It is
// deterministic: the same transcript always yields the same result.
func Fallback(transcript string) TranscriptIntent {
	text := strings.ToLower(transcript)

	switch {
	case isBalanceRequest(text):
		return TranscriptIntent{Intent: CheckBalance}
	case containsAny(text, historyTerms):
		return TranscriptIntent{Intent: CheckHistory}
	case containsAny(text, paymentTerms):
		return extractPayment(text)
	}

	return scoreIntent(text)
}

// Generic words like "money" only signal a balance request when no payment
// verb is present, so "transfer money" stays a payment.
func isBalanceRequest(text string) bool {
	if containsAny(text, strongBalanceTerms) {
		return true
	}
	return containsAny(text, genericBalanceTerms) && !containsAny(text, paymentVerbs)
}

func extractPayment(text string) TranscriptIntent {
	result := TranscriptIntent{
		Intent: MakePayment,
		Parameters: Parameters{
			Name:   extractName(text),
			Amount: extractAmount(text),
		},
	}
	if !result.Parameters.Amount.IsSet() {
		result.ClarificationMessage = amountClarification
	}
	return result
}

func extractName(text string) string {
	m := namePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	name := m[1]
	if name == "" {
		name = m[2]
	}
	if fillerNames[name] {
		return ""
	}
	return name
}

func extractAmount(text string) Amount {
	digits := amountPattern.FindString(text)
	if digits == "" {
		return 0
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return Amount(v)
}

// Ties go to balance, then history; payment wins only with a strict lead.
func scoreIntent(text string) TranscriptIntent {
	balance := countMatches(text, balanceScoreTerms)
	history := countMatches(text, historyScoreTerms)
	payment := countMatches(text, paymentScoreTerms)

	switch {
	case balance >= history && balance >= payment:
		return TranscriptIntent{Intent: CheckBalance}
	case history >= payment:
		return TranscriptIntent{Intent: CheckHistory}
	default:
		return TranscriptIntent{Intent: MakePayment, ClarificationMessage: paymentClarification}
	}
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func countMatches(text string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			n++
		}
	}
	return n
}
