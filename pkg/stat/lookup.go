package stat

import (
	"fmt"
	"sort"
	"strings"
)

// likelihoods is the closed set of named log likelihoods available for SPRT
var likelihoods = map[string]func() LogLikelihood{
	"exponential": func() LogLikelihood { return ExponentialLogLikelihood{} },
	"normal":      func() LogLikelihood { return NewNormalLogLikelihood(1) },
}

// UnknownLikelihood is an error type caused by a lookup that matches no
// known likelihood name
type UnknownLikelihood struct {
	Name string
}

func (e *UnknownLikelihood) Error() string {
	return fmt.Sprintf("unknown likelihood: %s", e.Name)
}

// AmbiguousLikelihood is an error type caused by a lookup that is a prefix
// of more than one known likelihood name
type AmbiguousLikelihood struct {
	Name    string
	Matches []string
}

func (e *AmbiguousLikelihood) Error() string {
	return fmt.Sprintf("ambiguous likelihood %q: matches %s", e.Name, strings.Join(e.Matches, ", "))
}

// LookupLikelihood resolves a log likelihood by case-insensitive prefix
// match over the closed set of known names
func LookupLikelihood(name string) (LogLikelihood, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	var matches []string
	for k := range likelihoods {
		if strings.HasPrefix(k, q) {
			matches = append(matches, k)
		}
	}
	sort.Strings(matches)
	switch len(matches) {
	case 1:
		return likelihoods[matches[0]](), nil
	case 0:
		return nil, &UnknownLikelihood{Name: name}
	default:
		return nil, &AmbiguousLikelihood{Name: name, Matches: matches}
	}
}
