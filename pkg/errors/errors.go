package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeNavigation represents browser navigation errors
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeExtraction represents per-item extraction errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeStore represents product store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// CrawlError represents a crawler-specific error
type CrawlError struct {
	Type    ErrorType
	Brand   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *CrawlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Brand, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Brand, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth retrying
func (e *CrawlError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeNavigation:
		return true
	default:
		return false
	}
}

// IsFatal returns true if the error must abort the run
func (e *CrawlError) IsFatal() bool {
	return e.Type == ErrorTypeConfiguration
}

// New creates a new CrawlError
func New(errType ErrorType, brand, message string, err error) *CrawlError {
	return &CrawlError{
		Type:    errType,
		Brand:   brand,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(brand, message string, err error) *CrawlError {
	return New(ErrorTypeNetwork, brand, message, err)
}

// NewNavigation creates a new browser navigation error
func NewNavigation(brand, message string, err error) *CrawlError {
	return New(ErrorTypeNavigation, brand, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(brand, message string, err error) *CrawlError {
	return New(ErrorTypeParsing, brand, message, err)
}

// NewExtraction creates a new per-item extraction error
func NewExtraction(brand, message string, err error) *CrawlError {
	return New(ErrorTypeExtraction, brand, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(brand string, duration time.Duration) *CrawlError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, brand, message, nil)
}

// NewStore creates a new product store error
func NewStore(brand, message string, err error) *CrawlError {
	return New(ErrorTypeStore, brand, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlError {
	return New(ErrorTypeConfiguration, "", message, err)
}
