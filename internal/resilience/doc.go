// Package resilience groups the fault tolerance helpers used around storage:
// a circuit breaker for repository calls and retry with exponential backoff
// for establishing the database connection.
//
//	repo = circuitbreaker.NewSourceRepository(repo, circuitbreaker.DBConfig())
//
//	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    conn, err = db.Open(ctx, cfg)
//	    return err
//	})
package resilience
