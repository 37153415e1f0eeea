package storage

import "pricelabs-dash/models"

// SummaryWriter is the interface any export backend must satisfy.
type SummaryWriter interface {
	WriteSummary(groups []models.GroupStats) error
	Close() error
}
