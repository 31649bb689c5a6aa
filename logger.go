// logger.go
package textpreprocessing

import (
	"os"

	"github.com/baditaflorin/l"
)

// createDefaultLogger creates the logger used by the package-level helpers.
// Output goes to stderr so stdout stays free for results.
func createDefaultLogger() (l.Logger, error) {
	return l.NewStandardFactory().CreateLogger(l.Config{
		Output:      os.Stderr,
		JsonFormat:  false,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,      // 1MB buffer
		MaxFileSize: 10 * 1024 * 1024, // 10MB max file size
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
}
