package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/clustergo/pkg/errors"
)

// SetupZerologWarnings routes library warnings through a zerolog logger
// writing to w. Warning types that implement zerolog.LogObjectMarshaler
// (ConvergenceWarning, UndefinedMetricWarning, ...) are emitted as
// structured objects; anything else falls back to the error message.
func SetupZerologWarnings(w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()

	errors.SetZerologWarnFunc(func(warning error) {
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			logger.Warn().EmbedObject(obj).Msg("clustergo warning")
			return
		}
		logger.Warn().Err(warning).Msg("clustergo warning")
	})

	return logger
}
