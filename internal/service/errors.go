package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/export"
	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/storage"
)

// connectCode maps package errors onto Connect codes.
func connectCode(err error) connect.Code {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, extraction.ErrUnknownModel), errors.Is(err, export.ErrUnknownFormat):
		return connect.CodeInvalidArgument
	case errors.Is(err, extraction.ErrRateLimited), errors.Is(err, extraction.ErrQuotaExhausted):
		return connect.CodeResourceExhausted
	case errors.Is(err, extraction.ErrMissingAPIKey):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}

// toConnectError logs internal failures and wraps err with its code.
func toConnectError(op string, err error) error {
	code := connectCode(err)
	if code == connect.CodeInternal {
		slog.Error(op+" failed", "error", err)
	}
	return connect.NewError(code, err)
}

func invalidArgument(msg string) error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}
