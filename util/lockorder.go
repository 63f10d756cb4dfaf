// util/lockorder.go
// Copyright(c) 2026 radiostack contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import "sync"

// LockOrderChecker records the order in which a goroutine acquires a set
// of named LoggingMutexes and flags any pair acquired in inconsistent
// order across calls. It is deliberately simple (a per-call scope stack +
// a shared edge set) since its only job is to catch a lock-ordering
// regression in tests, not to police production traffic.
type LockOrderChecker struct {
	mu    sync.Mutex
	edges map[[2]string]bool
}

func NewLockOrderChecker() *LockOrderChecker {
	return &LockOrderChecker{edges: make(map[[2]string]bool)}
}

// LockOrderScope holds one caller's acquisition stack. Since Go has no public
// goroutine-local storage, callers pass their own stack through
// explicitly via Scope.
type LockOrderScope struct {
	c     *LockOrderChecker
	stack []string
}

func (c *LockOrderChecker) NewScope() *LockOrderScope {
	return &LockOrderScope{c: c}
}

// Acquire records that name is being locked while the scope's current
// stack is held, and reports whether doing so would contradict an
// earlier-observed order (i.e. a potential deadlock cycle).
func (s *LockOrderScope) Acquire(name string) (violatesOrder bool) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	for _, held := range s.stack {
		if held == name {
			continue
		}
		forward := [2]string{held, name}
		backward := [2]string{name, held}
		if s.c.edges[backward] {
			violatesOrder = true
		}
		s.c.edges[forward] = true
	}
	s.stack = append(s.stack, name)
	return violatesOrder
}

func (s *LockOrderScope) Release(name string) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i] == name {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			return
		}
	}
}
