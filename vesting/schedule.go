package vesting

import (
	"errors"
	"time"

	"github.com/holiman/uint256"

	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
)

var (
	ErrZeroTotal       = errors.New("vesting total must be greater than 0")
	ErrZeroDuration    = errors.New("vesting duration must be greater than 0")
	ErrCliffAfterEnd   = errors.New("cliff must not exceed duration")
	ErrZeroBeneficiary = errors.New("beneficiary is required")
)

// Schedule releases Total linearly between Start and Start+Duration,
// with nothing vested before Start+Cliff.
type Schedule struct {
	ID          uint64         `json:"id"`
	Beneficiary common.Address `json:"beneficiary"`
	Total       *uint256.Int   `json:"total"`
	Start       time.Time      `json:"start"`
	Cliff       time.Duration  `json:"cliff"`
	Duration    time.Duration  `json:"duration"`
	Released    *uint256.Int   `json:"released"`
	Revocable   bool           `json:"revocable"`
	Revoked     bool           `json:"revoked"`
	RevokedAt   *time.Time     `json:"revoked_at,omitempty"`
}

func NewSchedule(beneficiary common.Address, total *uint256.Int, start time.Time, cliff, duration time.Duration, revocable bool) (*Schedule, error) {
	s := &Schedule{
		Beneficiary: beneficiary,
		Total:       total,
		Start:       start,
		Cliff:       cliff,
		Duration:    duration,
		Released:    uint256.NewInt(0),
		Revocable:   revocable,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schedule) Validate() error {
	switch {
	case s.Beneficiary.IsZero():
		return ErrZeroBeneficiary
	case s.Total == nil || s.Total.IsZero():
		return ErrZeroTotal
	case s.Duration <= 0:
		return ErrZeroDuration
	case s.Cliff < 0 || s.Cliff > s.Duration:
		return ErrCliffAfterEnd
	}
	return nil
}

// VestedAmount is the cumulative amount vested at the given time.
// Revoked schedules stop vesting at RevokedAt.
func (s *Schedule) VestedAmount(at time.Time) *uint256.Int {
	if s.Revoked && s.RevokedAt != nil && at.After(*s.RevokedAt) {
		at = *s.RevokedAt
	}
	if at.Before(s.Start.Add(s.Cliff)) {
		return uint256.NewInt(0)
	}
	elapsed := at.Sub(s.Start)
	if elapsed >= s.Duration {
		return new(uint256.Int).Set(s.Total)
	}

	vested, overflow := new(uint256.Int).MulDivOverflow(
		s.Total,
		uint256.NewInt(uint64(elapsed)),
		uint256.NewInt(uint64(s.Duration)),
	)
	if overflow {
		// elapsed < duration so the quotient is always below Total
		return new(uint256.Int).Set(s.Total)
	}
	return vested
}

// Releasable is what the beneficiary may withdraw now
func (s *Schedule) Releasable(at time.Time) *uint256.Int {
	vested := s.VestedAmount(at)
	if vested.Cmp(s.Released) <= 0 {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Sub(vested, s.Released)
}

// Unvested is the part of Total that has not vested at the given time
func (s *Schedule) Unvested(at time.Time) *uint256.Int {
	return new(uint256.Int).Sub(s.Total, s.VestedAmount(at))
}

func (s *Schedule) End() time.Time {
	return s.Start.Add(s.Duration)
}
