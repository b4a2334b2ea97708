package treasury

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	QuorumModeFixed    = "fixed"
	QuorumModeFraction = "fraction"
)

// QuorumPolicy decides how many approvals execute a funding request
type QuorumPolicy interface {
	Required(trustees int) int
	String() string
}

// FixedQuorum requires the same number of approvals whatever the trustee
// count. With fewer trustees than the quorum no request can execute.
type FixedQuorum int

func (q FixedQuorum) Required(int) int {
	if q < 1 {
		return 1
	}
	return int(q)
}

func (q FixedQuorum) String() string {
	return fmt.Sprintf("fixed(%d)", int(q))
}

// FractionQuorum requires ceil(trustees*Num/Den) approvals, at least one
type FractionQuorum struct {
	Num int
	Den int
}

func (q FractionQuorum) Required(trustees int) int {
	if q.Den <= 0 || trustees <= 0 {
		return 1
	}
	n := (trustees*q.Num + q.Den - 1) / q.Den
	if n < 1 {
		return 1
	}
	return n
}

func (q FractionQuorum) String() string {
	return fmt.Sprintf("fraction(%d/%d)", q.Num, q.Den)
}

// ParseFraction reads "num/den" with 0 < num <= den
func ParseFraction(s string) (FractionQuorum, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return FractionQuorum{}, fmt.Errorf("invalid quorum fraction %q", s)
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return FractionQuorum{}, fmt.Errorf("invalid quorum numerator %q: %w", parts[0], err)
	}
	den, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return FractionQuorum{}, fmt.Errorf("invalid quorum denominator %q: %w", parts[1], err)
	}
	if num <= 0 || den <= 0 || num > den {
		return FractionQuorum{}, fmt.Errorf("quorum fraction %q must be in (0, 1]", s)
	}
	return FractionQuorum{Num: num, Den: den}, nil
}

// NewQuorumPolicy builds a policy from its configured mode
func NewQuorumPolicy(mode string, fixed int, fraction string) (QuorumPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", QuorumModeFixed:
		if fixed < 1 {
			return nil, fmt.Errorf("fixed quorum must be at least 1, got %d", fixed)
		}
		return FixedQuorum(fixed), nil
	case QuorumModeFraction:
		return ParseFraction(fraction)
	default:
		return nil, fmt.Errorf("unknown quorum mode %q", mode)
	}
}
