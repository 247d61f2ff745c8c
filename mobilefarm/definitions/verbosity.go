package definitions

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// VerbosityTier controls how many listener events capture a screenshot.
type VerbosityTier int

const (
	Minimal VerbosityTier = iota
	Standard
	Verbose
)

func (v VerbosityTier) String() string {
	switch v {
	case Minimal:
		return "minimal"
	case Standard:
		return "standard"
	case Verbose:
		return "verbose"
	default:
		return fmt.Sprintf("VerbosityTier(%d)", int(v))
	}
}

// AtLeast reports whether v enables everything tier t enables.
func (v VerbosityTier) AtLeast(t VerbosityTier) bool {
	return v >= t
}

func ParseVerbosity(s string) (VerbosityTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return Minimal, nil
	case "standard", "normal":
		return Standard, nil
	case "verbose":
		return Verbose, nil
	default:
		return Minimal, fmt.Errorf("invalid verbosity: %q. Must be 'minimal', 'standard' or 'verbose'", s)
	}
}

// VerbosityFromLevel maps a log level to a tier: debug and below is verbose,
// info is standard, anything quieter is minimal.
func VerbosityFromLevel(level zerolog.Level) VerbosityTier {
	switch {
	case level <= zerolog.DebugLevel:
		return Verbose
	case level == zerolog.InfoLevel:
		return Standard
	default:
		return Minimal
	}
}
