// Package jobs provides scheduled background tasks for the locker service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with
// seconds) and only call command handlers; all state changes go through the
// same transactional paths as the HTTP API.
//
// # Available Jobs
//
// 1. PassCleanupJob - deletes unconsumed passes that are past their expiry
// 2. ParcelExpiryJob - expires parcels left uncollected beyond the hold period and frees their lockers
//
// # Usage
//
//	jobManager, err := jobs.NewJobManager(cleanupHandler, expiryHandler, jobs.DefaultConfig, logger)
//	if err != nil {
//		return err
//	}
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Pass cleanup runs at the top of every minute, parcel expiry every five
// minutes. A run that is still in progress when the next tick fires causes
// that tick to be skipped.
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. Failed job starts stop
// any already running jobs.
package jobs
