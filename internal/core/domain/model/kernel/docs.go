// Package kernel provides the shared domain primitives of the parcel locker
// service.
//
// The package includes:
//   - UUID: identifier value object for parcels and passes
//   - SizeClass: the closed set of locker/parcel size buckets
//   - Location: the column/row slot of a locker inside its cabinet
//   - Clock: the time source injected into domain services
//
// Value objects here are immutable and safe for concurrent use.
package kernel
