package config

import "time"

// Report form
const (
	MinDescriptionLength = 30
	MaxEvidenceFileSize  = 10 * 1024 * 1024 // 10 MiB per file
	MaxEvidenceFiles     = 10

	StakeMin     = 10
	StakeMax     = 100
	StakeStep    = 10
	StakeDefault = 10
)

// Listing
const (
	ReportsPageSize     = 20
	VerificationWindow  = 7 * 24 * time.Hour
	DefaultRiskFallback = "medium"

	// Community votes needed to settle a pending report either way.
	VerificationThreshold = 3
)

// HTTP client
const (
	APITimeout            = 30 * time.Second
	WalletAddressHeader   = "X-Wallet-Address"
	RateLimitAPI          = 10 // requests per second
	MultipartMemoryLimit  = 32 * 1024 * 1024
)

// Dev API server
const (
	ServerReadTimeout    = 30 * time.Second
	ServerWriteTimeout   = 60 * time.Second
	ServerIdleTimeout    = 120 * time.Second
	ServerMaxHeaderBytes = 1 << 20
	ShutdownTimeout      = 15 * time.Second
)

// Logging
const (
	LogMaxAgeDays = 7
)

// Durable storage keys.
const (
	SettingWalletAddress = "wallet_address"
	SettingDarkMode      = "dark_mode"
)
