package loadtest

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Students int           // Number of synthetic students to sign up
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Cleanup  bool          // Unregister every synthetic student afterwards
	Verbose  bool          // Log every request
}

// Signup pairs a synthetic student with the activity they join.
type Signup struct {
	Activity string
	Email    string
}

// Stats holds run statistics.
type Stats struct {
	Attempted      int
	Accepted       int
	Duplicates     int
	Rejected       int
	Failed         int
	Unregistered   int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	RequestsPerSec float64
}
