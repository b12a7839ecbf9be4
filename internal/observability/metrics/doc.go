// Package metrics defines the Prometheus metrics of the service, all named
// selfoss_*, and small helpers that record them. Metrics register with the
// default registry on import and are served at /metrics.
//
//	start := time.Now()
//	err := repo.Delete(ctx, id)
//	metrics.RecordDBQuery("delete_source", time.Since(start))
//	if err != nil {
//	    metrics.RecordSourceOperation("delete", metrics.ResultError)
//	}
package metrics
