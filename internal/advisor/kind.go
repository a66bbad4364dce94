package advisor

import (
	"fmt"
	"strings"
)

// Kind selects which advisory is produced.
type Kind string

const (
	KindAnalysis   Kind = "analysis"
	KindPrediction Kind = "prediction"
	KindTips       Kind = "tips"
)

// Kinds lists every advisory kind in display order.
var Kinds = []Kind{KindAnalysis, KindPrediction, KindTips}

func (k Kind) Valid() bool {
	_, ok := profiles[k]
	return ok
}

// ParseKind accepts a kind name in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("advisor: unknown kind %q", s)
	}
	return k, nil
}

// Source records whether text came from the remote model or the local fallback.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// Result is always non-empty text plus its origin.
type Result struct {
	Text   string
	Source Source
}

// Profile is the fixed request shape used for one kind.
type Profile struct {
	System      string
	Temperature float64
	MaxTokens   int64
}

var profiles = map[Kind]Profile{
	KindAnalysis: {
		System:      "Eres un experto asesor financiero personal. Analiza los patrones de gastos e ingresos y proporciona recomendaciones prácticas y específicas para mejorar la salud financiera. Sé directo pero constructivo. Responde en español.",
		Temperature: 0.7,
		MaxTokens:   1024,
	},
	KindPrediction: {
		System:      "Eres un predictor financiero. Analiza patrones históricos y predice gastos futuros basándote en datos pasados. Sé conservador en tus estimaciones. Responde en español.",
		Temperature: 0.5,
		MaxTokens:   512,
	},
	KindTips: {
		System:      "Eres un coach financiero práctico. Das consejos específicos, accionables y fáciles de implementar. Responde en español.",
		Temperature: 0.7,
		MaxTokens:   512,
	},
}

// ProfileFor returns the request profile for k. Unknown kinds get the tips profile.
func ProfileFor(k Kind) Profile {
	if p, ok := profiles[k]; ok {
		return p
	}
	return profiles[KindTips]
}
