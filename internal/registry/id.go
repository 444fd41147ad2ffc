package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewInstanceID returns a fresh instance id: the template path, the unix
// milliseconds of now and eight random hex characters.
func NewInstanceID(path string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%d_%s", path, now.UnixMilli(), random[:8])
}
