// Package locker contains the Locker aggregate: a physical storage unit of a
// fixed size class whose occupancy moves through a closed state machine.
//
// Locker state changes only through the methods in this package, and those
// methods are driven exclusively by the LockerPool domain service.
package locker
