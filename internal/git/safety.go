package git

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// testEnvVar is set by this package's TestMain so that commit and push refuse
// to touch a repository outside the system temp directory.
const testEnvVar = "GO_TEST_ENV"

func checkTestSafety(dir string) error {
	if os.Getenv(testEnvVar) != "1" {
		return nil
	}

	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	abs, _ = filepath.EvalSymlinks(abs)
	tmp, _ := filepath.EvalSymlinks(os.TempDir())

	if tmp != "" && strings.HasPrefix(abs, tmp) {
		return nil
	}
	return errors.New("SAFETY: refusing to modify a repository outside the temp directory during tests: " + abs)
}
