package link

import (
	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// VersionConstraint is the range of firmware versions this host speaks to
const VersionConstraint = "~0.1.0"

// ErrIncompatibleFirmware is reported when the firmware announces a version outside VersionConstraint
var ErrIncompatibleFirmware = errors.New("incompatible firmware")

// CheckVersion verifies an announced firmware version against VersionConstraint
func CheckVersion(version string) error {
	constraint, err := semver.NewConstraint(VersionConstraint)
	if err != nil {
		return errors.Wrap(err, "error parsing version constraint")
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(ErrIncompatibleFirmware, "invalid version %q", version)
	}

	if !constraint.Check(v) {
		return errors.Wrapf(ErrIncompatibleFirmware, "version %s does not satisfy %s", version, VersionConstraint)
	}
	return nil
}
