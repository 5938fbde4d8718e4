package metrics

// Playlist outcomes as recorded in PlaylistRequestsTotal.
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidRequest = "invalid_request"
	OutcomeNotFound       = "not_found"
	OutcomeUnresolvable   = "unresolvable"
	OutcomeCyclic         = "cyclic"
	OutcomeCanceled       = "canceled"
	OutcomeError          = "error"
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics(sources []string) {
	for _, outcome := range []string{OutcomeSuccess, OutcomeInvalidRequest, OutcomeNotFound,
		OutcomeUnresolvable, OutcomeCyclic, OutcomeCanceled, OutcomeError} {
		PlaylistRequestsTotal.WithLabelValues(outcome)
	}

	for _, source := range sources {
		for _, status := range []string{"success", "not_found", "error"} {
			BrowseTotal.WithLabelValues(source, status)
		}
		for _, status := range []string{"success", "unresolvable", "error"} {
			ResolveTotal.WithLabelValues(source, status)
		}
	}

	for _, op := range []string{"browse_children", "get_file_by_path", "upsert_file",
		"delete_missing_files", "create_user", "validate_password", "create_session",
		"validate_session", "clean_expired_sessions", "update_password", "calculate_stats"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, result := range []string{"commit", "rollback"} {
		DBTransactionDuration.WithLabelValues(result)
	}

	for _, retryOp := range []string{"stat", "open", "readdir"} {
		for _, vol := range []string{"media", "database", "unknown"} {
			FilesystemRetryAttempts.WithLabelValues(retryOp, vol)
			FilesystemRetrySuccess.WithLabelValues(retryOp, vol)
			FilesystemRetryFailures.WithLabelValues(retryOp, vol)
			FilesystemStaleErrors.WithLabelValues(retryOp, vol)
		}
	}

	for _, t := range []string{"folder", "audio", "video", "playlist"} {
		LibraryItems.WithLabelValues(t)
	}

	for _, result := range []string{"success", "failure"} {
		AuthAttemptsTotal.WithLabelValues(result)
	}
}
