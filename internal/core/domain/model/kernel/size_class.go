package kernel

import (
	"fmt"
	"strings"

	"parcellocker/internal/pkg/errs"
)

// SizeClass is the categorical size bucket shared by lockers and parcels.
// A parcel only fits a locker of exactly the same class; there is no
// upsizing or downsizing.
//
// The zero value (UnknownSize) is invalid and catches uninitialized fields.
type SizeClass int

const (
	UnknownSize SizeClass = iota
	Small
	Medium
	Large
	XLarge
)

func getSizeClassNames() map[SizeClass]string {
	return map[SizeClass]string{
		Small:  "small",
		Medium: "medium",
		Large:  "large",
		XLarge: "xlarge",
	}
}

// SizeClasses returns every valid size class in ascending order.
func SizeClasses() []SizeClass {
	return []SizeClass{Small, Medium, Large, XLarge}
}

// ParseSizeClass converts the wire representation ("small", "medium",
// "large", "xlarge") into a SizeClass. Matching is case-insensitive and
// ignores surrounding whitespace.
//
// Returns:
//   - the size class
//   - errs.ValueIsInvalidError for anything else
func ParseSizeClass(s string) (SizeClass, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for size, name := range getSizeClassNames() {
		if name == normalized {
			return size, nil
		}
	}
	return UnknownSize, errs.NewValueIsInvalidErrorWithCause(
		"sizeClass",
		fmt.Errorf("%q is not one of small, medium, large, xlarge", s),
	)
}

// Validate rejects UnknownSize and values outside the enumeration.
func (s SizeClass) Validate() error {
	if _, ok := getSizeClassNames()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("sizeClass", fmt.Errorf("%d is not a valid size class", s))
	}
	return nil
}

// String returns the wire name, or "unknown" for invalid values.
func (s SizeClass) String() string {
	if name, ok := getSizeClassNames()[s]; ok {
		return name
	}
	return "unknown"
}
