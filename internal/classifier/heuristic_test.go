package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicScorerDeterministic(t *testing.T) {
	s := NewHeuristicScorer()
	sig := Signals{IP: "203.0.113.10", UserAgent: "python-requests/2.31", RequestRate: 150}

	score1, reasons1 := s.Score(sig)
	score2, reasons2 := s.Score(sig)
	assert.Equal(t, score1, score2)
	assert.Equal(t, reasons1, reasons2)
}

func TestHeuristicScorerReasonsNonEmptyWhenPositive(t *testing.T) {
	s := NewHeuristicScorer()
	signals := []Signals{
		{UserAgent: ""},
		{UserAgent: "curl/8.0"},
		{UserAgent: "Googlebot/2.1 (+http://www.google.com/bot.html)"},
		{UserAgent: "Mozilla/5.0 (X11; Linux x86_64) HeadlessChrome/120.0", AcceptLanguage: "en"},
		{UserAgent: "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0", RequestRate: 200, AcceptLanguage: "en"},
	}
	for _, sig := range signals {
		score, reasons := s.Score(sig)
		if score > 0 {
			assert.NotEmpty(t, reasons, "signals %+v scored %d with no reasons", sig, score)
		}
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestHeuristicScorerBrowserScoresLow(t *testing.T) {
	s := NewHeuristicScorer()
	score, _ := s.Score(Signals{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		AcceptLanguage: "en-US,en;q=0.9",
		RequestRate:    4,
	})
	assert.Equal(t, 0, score)
}

func TestHeuristicScorerSignals(t *testing.T) {
	s := NewHeuristicScorer()

	tests := []struct {
		name   string
		sig    Signals
		reason ReasonCode
	}{
		{"empty ua", Signals{UserAgent: "", AcceptLanguage: "en"}, ReasonEmptyUA},
		{"crawler", Signals{UserAgent: "Googlebot/2.1 (+http://www.google.com/bot.html)", AcceptLanguage: "en"}, ReasonKnownBotUA},
		{"scripted", Signals{UserAgent: "curl/8.0", AcceptLanguage: "en"}, ReasonScriptedClient},
		{"headless", Signals{UserAgent: "Mozilla/5.0 (X11) HeadlessChrome/120.0", AcceptLanguage: "en"}, ReasonHeadlessBrowser},
		{"no language", Signals{UserAgent: "Mozilla/5.0 (X11; Linux) Firefox/121.0"}, ReasonMissingLanguage},
		{"high rate", Signals{UserAgent: "Mozilla/5.0 (X11; Linux) Firefox/121.0", AcceptLanguage: "en", RequestRate: 150}, ReasonHighRequestRate},
		{"elevated rate", Signals{UserAgent: "Mozilla/5.0 (X11; Linux) Firefox/121.0", AcceptLanguage: "en", RequestRate: 80}, ReasonElevatedReqRate},
		{"opaque token", Signals{UserAgent: "tracker-1.0", AcceptLanguage: "en"}, ReasonSuspiciousUAShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, reasons := s.Score(tt.sig)
			assert.Positive(t, score)
			assert.Contains(t, reasons, tt.reason)
		})
	}
}

func TestHeuristicScorerClampsAt100(t *testing.T) {
	s := NewHeuristicScorer()
	// Crawler + scripted + suspicious shape + no language + high rate.
	score, reasons := s.Score(Signals{UserAgent: "mycrawler-curl", RequestRate: 500})
	assert.Equal(t, 100, score)
	assert.NotEmpty(t, reasons)
}
