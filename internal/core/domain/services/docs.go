// Package services holds domain services that operate across aggregates.
//
// RobotSelector decides which robot should serve a request; the registry
// performs the reservation itself. TimeoutPolicy turns persisted stage
// timestamps into supervision decisions for the timeout supervisor job.
package services
