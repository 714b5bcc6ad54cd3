package mock

import "time"

// Config represents the reference backend configuration
type Config struct {
	Port    int    `json:"port" yaml:"port"`       // Server port (default: 5000)
	Host    string `json:"host" yaml:"host"`       // Server host (default: localhost)
	Logging bool   `json:"logging" yaml:"logging"` // Keep a request log
	Delay   int    `json:"delay" yaml:"delay"`     // Artificial latency in milliseconds
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Mode      string        `json:"mode,omitempty"`
	Status    int           `json:"status"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}
