package parcel

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"parcellocker/internal/pkg/errs"
)

// CodeLength is the number of digits in a one-time pass code.
const CodeLength = 6

var codeSpace = big.NewInt(1_000_000)

// CodeGenerator produces one-time pass codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCodeGenerator draws codes uniformly from 000000..999999 using a
// cryptographically secure source. The zero value reads crypto/rand.
type RandomCodeGenerator struct {
	// Source overrides crypto/rand.Reader; tests use it to force failures.
	Source io.Reader
}

func (g RandomCodeGenerator) Generate() (string, error) {
	source := g.Source
	if source == nil {
		source = rand.Reader
	}

	n, err := rand.Int(source, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate pass code: %w", err)
	}

	return fmt.Sprintf("%0*d", CodeLength, n.Int64()), nil
}

// ValidateCode checks the wire format of a code: exactly six ASCII digits.
func ValidateCode(code string) error {
	if len(code) != CodeLength {
		return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("must be %d digits", CodeLength))
	}
	for i := range len(code) {
		if code[i] < '0' || code[i] > '9' {
			return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("must be %d digits", CodeLength))
		}
	}
	return nil
}
