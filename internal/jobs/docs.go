// Package jobs provides scheduled background tasks for the laundry fleet.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the orchestrator.
//
// # Available Jobs
//
// 1. DispatchJob - Runs every 5 seconds to pair waiting requests with
// available robots (pickup and delivery legs alike)
// 2. TimeoutSupervisorJob - Runs every 30 seconds to detect requests stuck
// in a motion stage and escalate or cancel them per the timeout policy
// 3. LivenessSweepJob - Runs every 10 seconds to mark robots whose
// heartbeats stopped as offline
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(uowFactory, dispatchHandler,
//		superviseHandler, fleet, heartbeatGrace, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// All schedules use second-granularity cron expressions. The timings bound
// reaction latency only: dispatch retries on the next tick, and the timeout
// supervisor recomputes dwell from persisted timestamps so nothing is lost
// between passes or across restarts.
//
// # Error Handling
//
// - Dispatch ticks treat an exhausted fleet as a normal outcome
// - Supervision and sweep errors are logged and retried on the next pass
// - Failed job starts stop any already running jobs
package jobs
