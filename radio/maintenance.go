// radio/maintenance.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package radio

import (
	"context"
	"time"
)

// Maintain runs one sweep of the inbound-stream table under the
// stream-map lock, evicting entries inactive for longer than
// CompressedSourceCacheTimeout (C10, §4.2).
func (s *RadioStack) Maintain() {
	scope := s.newScope()
	s.lockStreamMap(scope)
	defer s.unlockStreamMap(scope)
	s.streams.Maintain(time.Now(), CompressedSourceCacheTimeout)
}

// RunMaintenanceLoop sweeps every MaintenanceInterval until ctx is
// canceled. It is meant to be run on the event-loop execution context
// (§5); cmd/radiostack runs it on its main goroutine until shutdown.
func (s *RadioStack) RunMaintenanceLoop(ctx context.Context) error {
	ticker := time.NewTicker(MaintenanceInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Maintain()
		}
	}
}
