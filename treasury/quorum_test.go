package treasury

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuorumPolicies(t *testing.T) {
	tests := []struct {
		name     string
		policy   QuorumPolicy
		trustees int
		want     int
	}{
		{"fixed ignores trustee count", FixedQuorum(3), 10, 3},
		{"fixed with fewer trustees", FixedQuorum(3), 2, 3},
		{"fixed below one", FixedQuorum(0), 4, 1},
		{"two thirds of five", FractionQuorum{2, 3}, 5, 4},
		{"two thirds of six", FractionQuorum{2, 3}, 6, 4},
		{"majority of four", FractionQuorum{1, 2}, 4, 2},
		{"fraction with no trustees", FractionQuorum{1, 2}, 0, 1},
		{"unanimous", FractionQuorum{1, 1}, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Required(tt.trustees))
		})
	}
}

func TestNewQuorumPolicy(t *testing.T) {
	p, err := NewQuorumPolicy("", 3, "")
	require.NoError(t, err)
	assert.Equal(t, FixedQuorum(3), p)

	p, err = NewQuorumPolicy("Fraction", 0, " 2 / 3 ")
	require.NoError(t, err)
	assert.Equal(t, FractionQuorum{Num: 2, Den: 3}, p)

	for _, tc := range []struct{ mode, fraction string }{
		{"fraction", "3/2"},
		{"fraction", "0/3"},
		{"fraction", "half"},
		{"majority", ""},
	} {
		_, err := NewQuorumPolicy(tc.mode, 3, tc.fraction)
		assert.Error(t, err, tc)
	}

	_, err = NewQuorumPolicy("fixed", 0, "")
	assert.Error(t, err)
}
