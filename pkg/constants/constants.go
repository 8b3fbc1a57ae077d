// Package constants provides shared constants used throughout the stocksync codebase.
// This includes timeouts, limits, service endpoints and defaults that should be
// consistent across the collaborator clients and the reconciliation pipeline.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the per-call timeout for requests to the external services
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRunTimeout is the deadline for a whole synchronization run
	DefaultRunTimeout = 30 * time.Minute

	// ShutdownTimeout is how long shutdown hooks get after a failed run
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultPageSize is the number of items requested per page from the warehouse API
	DefaultPageSize = 100

	// MaxPages is the safety bound on paginated fetches against a source that
	// never reports completion
	MaxPages = 1000

	// AirtableRequestsPerSecond is Airtable's documented per-base rate limit
	AirtableRequestsPerSecond = 5

	// MaxErrorBodyBytes caps how much of an error response body is kept in an APIError
	MaxErrorBodyBytes = 4096
)

// Service base URLs
const (
	// ZenventoryBaseURL is the root of the Zenventory REST API
	ZenventoryBaseURL = "https://app.zenventory.com/rest"

	// AirtableBaseURL is the root of the Airtable REST API
	AirtableBaseURL = "https://api.airtable.com/v0"

	// EasyPostBaseURL is the root of the EasyPost v2 API
	EasyPostBaseURL = "https://api.easypost.com/v2"
)

// Service names used in logs and errors
const (
	ServiceZenventory = "zenventory"
	ServiceAirtable   = "airtable"
	ServiceEasyPost   = "easypost"
)

// Report defaults
const (
	// DefaultReportStart is the first day of the default report window
	DefaultReportStart = "2024-01-01"

	// DefaultReportEnd is the last day of the default report window
	DefaultReportEnd = "2024-12-31"

	// DateFormat is the date layout the warehouse report endpoints accept
	DateFormat = "2006-01-02"

	// DefaultDomesticCountry is the country code treated as domestic for cost medians
	DefaultDomesticCountry = "US"
)

// Default table names in the record store
const (
	DefaultInventoryTable = "Warehouse SKUs"
	DefaultShipmentTable  = "Shipment Requests"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339
)
