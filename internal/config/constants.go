package config

const (
	// DefaultDatabasePath is the default path for the library database
	DefaultDatabasePath = "./librarium.db"

	// DefaultLoanPeriodDays is how long a borrowed book may be kept
	// before it counts as overdue
	DefaultLoanPeriodDays = 14
)
