// Package robot holds the Robot aggregate.
//
// A robot's identity is its announced name. Reservation is a two phase
// move: Reserve binds the robot and marks it Dispatching, and the first
// heartbeat carrying a task confirms the bind by moving it to Busy. The
// registry serializes Reserve calls per robot so that concurrent dispatch
// attempts see exactly one winner.
package robot
