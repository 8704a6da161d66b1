package loadtest

import "time"

// Defaults used by ParseFlags.
const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultStudents = 500
	DefaultWorkers  = 16
	DefaultTimeout  = 10 * time.Second

	emailDomain = "loadtest.mergington.edu"
)
