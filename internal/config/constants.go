package config

// Server defaults
const (
	DefaultPort = 8080
)

// Delivery defaults
const (
	DefaultSMTPPort = 587
)

// Sweep defaults
const (
	DefaultSweepIntervalSeconds = 300
)
