package helpers

import (
	"context"
	"log/slog"
	"time"

	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/smithy-go/middleware"
)

// LogOperation logs each AWS API call with its outcome and latency at debug level.
var LogOperation = middleware.InitializeMiddlewareFunc("LogOperation", func(ctx context.Context, input middleware.InitializeInput, handler middleware.InitializeHandler) (middleware.InitializeOutput, middleware.Metadata, error) {
	service := awsmiddleware.GetServiceID(ctx)
	operation := awsmiddleware.GetOperationName(ctx)
	start := time.Now()

	out, metadata, err := handler.HandleInitialize(ctx, input)

	attrs := []any{
		"service", service,
		"operation", operation,
		"duration", time.Since(start),
	}
	if requestID, ok := awsmiddleware.GetRequestIDMetadata(metadata); ok {
		attrs = append(attrs, "request_id", requestID)
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	slog.Debug("aws call", attrs...)

	return out, metadata, err
})
