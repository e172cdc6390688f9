package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"autosrt/internal/logging"
	"autosrt/internal/services"
	"autosrt/internal/textutil"
)

// lock takes an exclusive per-output lock so two runs never write the same subtitle.
func (s *Service) lock(ctx context.Context, output string) (func(), error) {
	lockPath := s.lockPath(output)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, StageLock, "lock dir", "", err)
	}
	fileLock := flock.New(lockPath)
	ok, err := fileLock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPrecondition, StageLock, "acquire", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrPrecondition, StageLock, "acquire",
			fmt.Sprintf("another autosrt run is writing %s", output), nil)
	}
	logger := logging.WithContext(ctx, s.logger)
	logger.Debug("output lock acquired", logging.String("lock", lockPath))
	return func() {
		if err := fileLock.Unlock(); err != nil {
			logger.Warn("failed to release output lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}, nil
}

// lockPath names the lock file for output inside the state directory.
func (s *Service) lockPath(output string) string {
	sum := sha256.Sum256([]byte(output))
	name := textutil.SanitizeToken(textutil.Stem(output)) + "-" + hex.EncodeToString(sum[:])[:16] + ".lock"
	return filepath.Join(s.cfg.Paths.StateDir, "locks", name)
}
