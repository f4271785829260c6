package service

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/veritas/internal/domain"
)

const retryMessage = "the verification service is unavailable, please try again"

// collaboratorError classifies a failed collaborator call. parent is the
// caller's context, used to tell a departed client from a timeout.
func collaboratorError(parent context.Context, err error) error {
	var de *domain.Error
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return domain.NewCancelledError(err)
	case errors.As(err, &de):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewTimeoutError("the verification service timed out, please try again", err)
	default:
		return domain.NewUpstreamError(retryMessage, err)
	}
}
