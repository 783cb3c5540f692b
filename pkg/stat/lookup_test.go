package stat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupLikelihood(t *testing.T) {
	tt := []struct {
		name  string
		query string
		exp   string
	}{
		{name: "full name", query: "exponential", exp: "exponential"},
		{name: "prefix", query: "exp", exp: "exponential"},
		{name: "single letter", query: "n", exp: "normal"},
		{name: "case insensitive", query: "NORM", exp: "normal"},
		{name: "surrounding whitespace", query: "  normal  ", exp: "normal"},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ll, err := LookupLikelihood(tc.query)
			require.NoError(t, err)
			switch tc.exp {
			case "exponential":
				assert.IsType(t, ExponentialLogLikelihood{}, ll)
			case "normal":
				assert.IsType(t, NormalLogLikelihood{}, ll)
			}
		})
	}
}

func TestLookupLikelihoodNotFound(t *testing.T) {
	_, err := LookupLikelihood("poisson")
	require.Error(t, err)
	var unknown *UnknownLikelihood
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "poisson", unknown.Name)
}

func TestLookupLikelihoodAmbiguous(t *testing.T) {
	// the empty string is a prefix of every name
	_, err := LookupLikelihood("")
	require.Error(t, err)
	var ambiguous *AmbiguousLikelihood
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []string{"exponential", "normal"}, ambiguous.Matches)
}
