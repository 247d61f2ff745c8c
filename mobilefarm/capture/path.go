package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spance/mobilefarm-go/constants"
	"github.com/valyala/fasttemplate"
)

// DefaultOutputDir is <cwd>/results.
func DefaultOutputDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, constants.DefaultResultsDir), nil
}

// NewScreenshotPath resolves <outputDir>/<testName> to an absolute path and
// creates it with parents. Calling it again for an existing directory is fine.
func NewScreenshotPath(outputDir, testName string) (string, error) {
	if testName == "" {
		return "", fmt.Errorf("screenshot path: empty test name")
	}
	if outputDir == "" {
		var err error
		if outputDir, err = DefaultOutputDir(); err != nil {
			return "", err
		}
	}
	root, err := filepath.Abs(outputDir)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, testName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir %s: %w", dir, err)
	}
	return dir, nil
}

// FormatTimestamp renders t in UTC as YYYYMMDD_HHMMSS_ffffff.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s_%06d", t.Format(constants.ArtifactTimestampLayout), t.Nanosecond()/int(time.Microsecond))
}

// ArtifactName renders the file name of one capture.
func ArtifactName(at time.Time, label, ext string) string {
	return fasttemplate.ExecuteString(constants.ArtifactNameTemplate, "{", "}", map[string]any{
		"timestamp": FormatTimestamp(at),
		"label":     label,
		"ext":       ext,
	})
}
