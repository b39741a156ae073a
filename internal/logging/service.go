package logging

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"storewatch-worker-go/internal/config"
)

func NewServiceLogger(cfg *config.Config, service string) zerolog.Logger {
	return log.With().Str("worker_id", cfg.WorkerID).Str("service", service).Logger()
}

func WithChannel(base zerolog.Logger, channel int) zerolog.Logger {
	return base.With().Str("channel", strconv.Itoa(channel)).Logger()
}
