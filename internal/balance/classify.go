package balance

import "pontos/internal/core"

// Classifier decides which bucket an activity category feeds.
// Categories it does not know must report core.Neutral.
type Classifier interface {
	Polarity(c core.Category) core.Polarity
}

// CategoryTable maps categories to polarities. Missing entries are neutral.
type CategoryTable map[core.Category]core.Polarity

// Polarity implements Classifier.
func (t CategoryTable) Polarity(c core.Category) core.Polarity {
	return t[c]
}

// With returns a copy of t with c classified as p.
func (t CategoryTable) With(c core.Category, p core.Polarity) CategoryTable {
	out := make(CategoryTable, len(t)+1)
	for k, v := range t {
		out[k] = v
	}
	out[c] = p
	return out
}

// DefaultClassifier classifies the built-in categories:
// positivos and especiais are positive, negativos and graves are negative.
func DefaultClassifier() CategoryTable {
	t := make(CategoryTable)
	for _, info := range core.Categories() {
		t[info.Category] = info.Polarity
	}
	return t
}
