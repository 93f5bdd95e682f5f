// Package logger builds *slog.Logger instances with functional options and
// provides attribute helpers so every component names fields the same way.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "magsubs"),
//	    logger.WithLevel(slog.LevelInfo),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "subscription created",
//	    logger.SubscriptionID(sub.ID),
//	    logger.UserID(sub.UserID),
//	)
//
// New wraps the text or JSON handler in LogHandlerDecorator, which runs the
// registered ContextExtractor callbacks on each record. That is how the
// request ID set by HTTP middleware ends up on records emitted deep inside the
// ledger.
//
// Attribute helpers return an empty slog.Attr for nil errors and nil UUIDs;
// slog omits empty attributes, so call sites need no nil checks.
package logger
