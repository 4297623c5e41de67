package ui

import (
	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/tasks"
)

// progressUpdateMsg carries one pipeline progress event.
type progressUpdateMsg tasks.ProgressUpdate

// lookupCompleteMsg is sent once the pipeline returns.
type lookupCompleteMsg struct {
	externalID string
	stats      *models.NormalizedStats
	err        error
}
