// Package domain contains the core business entities and errors for Quarry.
// It has no dependencies on infrastructure or adapters.
package domain
