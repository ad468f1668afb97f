package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/AngelCh415/admira-dashboard/internal/utils"
)

var retryPolicy = utils.NewBackoff(100*time.Millisecond, 2).WithJitter(150 * time.Millisecond)

// GetJSONWithRetry: hasta 3 intentos con backoff exponencial + jitter.
// Un 4xx (salvo 429) o un cuerpo que no decodifica no se reintentan.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	var permanent error
	err := retryPolicy.Do(ctx, func(int) error {
		err := getJSON(ctx, c, url, dst)
		var se *StatusError
		if (errors.As(err, &se) && !se.Retryable()) || errors.Is(err, ErrBadPayload) {
			permanent = err
			return nil
		}
		return err
	})
	if permanent != nil {
		return permanent
	}
	return err
}
