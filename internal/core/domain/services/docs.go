// Package services holds the domain services of the parcel locker core.
//
//   - LockerPool owns locker occupancy: it reserves a free locker of the
//     requested size, confirms occupancy, releases lockers, and toggles
//     maintenance.
//   - PickupAuthorizer owns parcels and their one-time passes: it deposits
//     parcels into lockers reserved through LockerPool, issues passes, and
//     validates pickup attempts.
//
// Both services are stateless. Every operation receives the stores it works
// on, which application command handlers bind to a single transaction. Stores
// persist aggregates with a version compare-and-swap and report lost races as
// errs.ErrVersionIsInvalid; handlers retry those.
package services
