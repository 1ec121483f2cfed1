package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"parcellocker/internal/core/application/usecases/commands"
	"parcellocker/internal/core/domain/model/kernel"
	"parcellocker/internal/core/domain/model/locker"

	"gopkg.in/yaml.v3"
)

// DefaultLockerCount is the size of the inventory used when no file exists.
const DefaultLockerCount = 20

type lockersFile struct {
	Lockers []lockerEntry `yaml:"lockers"`
}

// lockerEntry is one locker in the inventory file. Only size is required:
// id defaults to the position (1-based), number to L-%03d of the id and the
// slot to LocationForIndex of the position.
type lockerEntry struct {
	ID     int                `yaml:"id"`
	Number string             `yaml:"number"`
	Size   string             `yaml:"size"`
	Column *kernel.Coordinate `yaml:"column"`
	Row    *kernel.Coordinate `yaml:"row"`
}

// LoadLockerSpecs reads the inventory at path, falling back to
// DefaultLockerSpecs when the file does not exist.
func LoadLockerSpecs(path string) ([]commands.LockerSpec, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultLockerSpecs(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	specs, err := ParseLockerSpecs(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return specs, nil
}

func ParseLockerSpecs(data []byte) ([]commands.LockerSpec, error) {
	var file lockersFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	specs := make([]commands.LockerSpec, 0, len(file.Lockers))
	for i, entry := range file.Lockers {
		spec, err := entry.toSpec(i)
		if err != nil {
			return nil, fmt.Errorf("locker #%d: %w", i+1, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (e lockerEntry) toSpec(index int) (commands.LockerSpec, error) {
	id := locker.ID(e.ID)
	if id == 0 {
		id = locker.ID(index + 1)
	}

	number := e.Number
	if number == "" {
		number = locker.DefaultNumber(id)
	}

	size, err := kernel.ParseSizeClass(e.Size)
	if err != nil {
		return commands.LockerSpec{}, err
	}

	var location kernel.Location
	switch {
	case e.Column != nil && e.Row != nil:
		location, err = kernel.NewLocation(*e.Column, *e.Row)
	case e.Column == nil && e.Row == nil:
		location, err = kernel.LocationForIndex(index)
	default:
		err = errors.New("column and row must be set together")
	}
	if err != nil {
		return commands.LockerSpec{}, err
	}

	return commands.LockerSpec{ID: id, Number: number, Size: size, Location: location}, nil
}

// DefaultLockerSpecs returns L-001..L-020, cycling small, medium, large,
// small, medium.
func DefaultLockerSpecs() []commands.LockerSpec {
	pattern := []kernel.SizeClass{kernel.Small, kernel.Medium, kernel.Large, kernel.Small, kernel.Medium}

	specs := make([]commands.LockerSpec, DefaultLockerCount)
	for i := range specs {
		id := locker.ID(i + 1)
		location, _ := kernel.LocationForIndex(i)
		specs[i] = commands.LockerSpec{
			ID:       id,
			Number:   locker.DefaultNumber(id),
			Size:     pattern[i%len(pattern)],
			Location: location,
		}
	}
	return specs
}
