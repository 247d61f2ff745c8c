package capture

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spance/mobilefarm-go/constants"
	"github.com/spance/mobilefarm-go/mobilefarm/definitions"
)

// Screenshotter writes the current screen to a file.
type Screenshotter interface {
	SaveScreenshot(ctx context.Context, path string) error
}

// Sink materializes CapturedArtifacts under one ScreenshotPath.
type Sink struct {
	dir    string
	target Screenshotter
	now    func() time.Time
	ext    string
}

func NewSink(target Screenshotter, dir string) *Sink {
	return &Sink{
		dir:    dir,
		target: target,
		now:    time.Now,
		ext:    constants.ScreenshotExt,
	}
}

func (s *Sink) Dir() string {
	return s.dir
}

// Artifact computes where a capture labelled label taken at `at` is stored.
func (s *Sink) Artifact(label string, at time.Time) definitions.CapturedArtifact {
	return definitions.CapturedArtifact{
		Timestamp: at.UTC(),
		Label:     label,
		Ext:       s.ext,
		Path:      filepath.Join(s.dir, ArtifactName(at, label, s.ext)),
	}
}

// Save writes one screenshot. Failures come back as *DiagnosticError.
func (s *Sink) Save(ctx context.Context, label string) (definitions.CapturedArtifact, error) {
	artifact := s.Artifact(label, s.now())
	if err := s.target.SaveScreenshot(ctx, artifact.Path); err != nil {
		return artifact, &DiagnosticError{Op: "screenshot", Label: label, Err: err}
	}
	return artifact, nil
}
