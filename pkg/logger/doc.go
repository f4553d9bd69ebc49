// Package logger configures log/slog for the notifykit packages and
// provides shared attribute helpers so log keys stay consistent across
// components.
//
//	log := logger.New(logger.WithProduction("notifykit"))
//	log.Info("message routed", logger.Channel("sms"), logger.CostUSD(0.02))
package logger
