// Package registry keeps the live fleet state in memory and owns the
// atomic robot reservation step. Persistence is write-through: every
// mutation lands in the RobotRepository before the caller sees success,
// and WarmUp restores the fleet after a restart.
package registry
