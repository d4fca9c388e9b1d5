package extractor

import (
	"context"
	"errors"

	"github.com/use-agent/pdrscrape/models"
)

// readError wraps a backend failure. Errors that already carry a code keep
// it; an expired or cancelled context is a timeout.
func readError(what string, err error) error {
	var se *models.ScrapeError
	switch {
	case errors.As(err, &se):
		return models.NewScrapeError(se.Code, what+": "+se.Message, se.Err)
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, what, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "extraction canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeExtraction, what, err)
	}
}
