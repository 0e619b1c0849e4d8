// Package logger wraps zerolog with the small structured-logging surface used
// across rxhttp: component-tagged child loggers, context enrichment and
// map-based fields.
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "uploads")
//	log.WithComponent("rx").Info("request started", logger.Fields("request_id", id))
package logger
