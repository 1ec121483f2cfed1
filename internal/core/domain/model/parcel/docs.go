// Package parcel contains the Parcel aggregate and its OneTimePass entities.
//
// A parcel is created when a courier drops it off, is bound to exactly one
// locker for as long as it waits for the recipient, and leaves the active set
// either when the recipient redeems a valid one-time pass or when the hold
// period runs out.
//
// Lifecycle:
//
//	AwaitingDeposit ──Deposit──> AwaitingPickup ──Redeem──> PickedUp
//	                                   │
//	                                   └──Expire──> Expired
//
// The aggregate enforces:
//   - lockerID is set exactly while the parcel is AwaitingPickup or PickedUp
//   - depositTime and pickupTime are written once
//   - at most one unconsumed pass exists; issuing a new one discards the rest
//   - codes are compared in constant time and are valid up to and including
//     their expiry instant
package parcel
