package parcel

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/pkg/errs"
	"parcellocker/internal/pkg/guard"
)

var ErrOneTimePassIsNotConstructed = errors.New("OneTimePass must be created via NewOneTimePass or RestoreOneTimePass constructor")

// OneTimePass is a short-lived pickup code owned by a Parcel.
//
// A pass is usable while it is not consumed and the current time is not after
// expiresAt. Once consumed it never becomes usable again.
type OneTimePass struct {
	id        kernel.UUID
	parcelID  kernel.UUID
	code      string
	issuedAt  time.Time
	expiresAt time.Time
	consumed  bool

	guard guard.ConstructorGuard
}

// NewOneTimePass creates an unconsumed pass valid from issuedAt to expiresAt.
//
// Returns:
//   - *OneTimePass on success
//   - joined validation errors when an id is missing, the code is not six
//     digits, or expiresAt is not after issuedAt
func NewOneTimePass(id, parcelID kernel.UUID, code string, issuedAt, expiresAt time.Time) (*OneTimePass, error) {
	return RestoreOneTimePass(id, parcelID, code, issuedAt, expiresAt, false)
}

// RestoreOneTimePass rebuilds a pass from storage.
func RestoreOneTimePass(
	id, parcelID kernel.UUID,
	code string,
	issuedAt, expiresAt time.Time,
	consumed bool,
) (*OneTimePass, error) {
	p := &OneTimePass{
		consumed: consumed,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setParcelID(parcelID),
		p.setCode(code),
		p.setValidity(issuedAt, expiresAt),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *OneTimePass) Validate() error {
	if p == nil {
		return ErrOneTimePassIsNotConstructed
	}
	return p.guard.Validate(ErrOneTimePassIsNotConstructed)
}

func (p *OneTimePass) ID() kernel.UUID {
	return p.id
}

func (p *OneTimePass) ParcelID() kernel.UUID {
	return p.parcelID
}

func (p *OneTimePass) Code() string {
	return p.code
}

func (p *OneTimePass) IssuedAt() time.Time {
	return p.issuedAt
}

func (p *OneTimePass) ExpiresAt() time.Time {
	return p.expiresAt
}

func (p *OneTimePass) IsConsumed() bool {
	return p.consumed
}

// IsExpired reports whether now is strictly after expiresAt.
func (p *OneTimePass) IsExpired(now time.Time) bool {
	return now.After(p.expiresAt)
}

// IsUsable reports whether the pass can still authorize a pickup at now.
func (p *OneTimePass) IsUsable(now time.Time) bool {
	return !p.consumed && !p.IsExpired(now)
}

// Matches compares code with the stored one in constant time.
func (p *OneTimePass) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(p.code), []byte(code)) == 1
}

func (p *OneTimePass) consume() {
	p.consumed = true
}

func (p *OneTimePass) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *OneTimePass) setParcelID(parcelID kernel.UUID) error {
	if err := parcelID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("parcelId", err)
	}
	p.parcelID = parcelID
	return nil
}

func (p *OneTimePass) setCode(code string) error {
	if err := ValidateCode(code); err != nil {
		return err
	}
	p.code = code
	return nil
}

func (p *OneTimePass) setValidity(issuedAt, expiresAt time.Time) error {
	if issuedAt.IsZero() {
		return errs.NewValueIsRequiredError("issuedAt")
	}
	if !expiresAt.After(issuedAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"expiresAt",
			fmt.Errorf("%s is not after %s", expiresAt.Format(time.RFC3339), issuedAt.Format(time.RFC3339)),
		)
	}
	p.issuedAt = issuedAt
	p.expiresAt = expiresAt
	return nil
}
