package services

import "fmt"

// Service errors
var (
	ErrNoTablesSpecified       = &ServiceError{Message: "no tables specified"}
	ErrInvalidSeedCount        = &ServiceError{Message: "count must be between 1 and 500"}
	ErrScoreboardNotConfigured = &ServiceError{Message: "scoreboard URL not configured"}
	ErrBaseURLNotConfigured    = &ServiceError{Message: "base_url not configured"}
	ErrNoMatchRun              = &ServiceError{Message: "matching has not run yet"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}
