package loadtest

import "time"

// Config holds configuration for a load run against the scoring API.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of requests to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Account     string        // Account name to sign requests with
	Login       string        // Login to sign requests with
	Salt        string        // Shared secret for token derivation
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// methodRequest is the wire shape posted to /method.
type methodRequest struct {
	Account   string         `json:"account"`
	Login     string         `json:"login"`
	Token     string         `json:"token"`
	Method    string         `json:"method"`
	Arguments map[string]any `json:"arguments"`
}

// envelope is the wire shape of every /method response. Error is a
// plain message or, for validation failures, a list of messages.
type envelope struct {
	Response any `json:"response"`
	Error    any `json:"error"`
	Code     int `json:"code"`
}

// Stats holds load run statistics.
type Stats struct {
	RequestsGenerated int
	RequestsSubmitted int
	RequestsOK        int
	RequestsRejected  int
	RequestsFailed    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
