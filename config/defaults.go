package config

const (
	DefaultListenAddr  = ":8080"
	DefaultMetricsAddr = ":9100"
	DefaultStoreDir    = "./data/treasury"

	DefaultQuorumMode       = "fixed"
	DefaultQuorum           = 3
	DefaultQuorumFraction   = "2/3"
	DefaultExpiryDays       = 30
	DefaultSweepIntervalSec = 300

	DefaultRateLimit       = 60
	DefaultRateWindowSec   = 60
	DefaultMaxClockSkewSec = 300
	DefaultMaxBodyBytes    = 1 << 20
)

var DefaultCategories = []string{"marketing", "development", "community", "operations"}

func DefaultTreasuryConfig() *TreasuryConfig {
	return &TreasuryConfig{
		QuorumMode:       DefaultQuorumMode,
		Quorum:           DefaultQuorum,
		QuorumFraction:   DefaultQuorumFraction,
		ExpiryDays:       DefaultExpiryDays,
		SweepIntervalSec: DefaultSweepIntervalSec,
	}
}

func DefaultAPIConfig() *APIConfig {
	return &APIConfig{
		RateLimit:       DefaultRateLimit,
		RateWindowSec:   DefaultRateWindowSec,
		MaxClockSkewSec: DefaultMaxClockSkewSec,
		MaxBodyBytes:    DefaultMaxBodyBytes,
	}
}
