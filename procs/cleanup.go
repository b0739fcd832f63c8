// Package procs sweeps orphaned browser processes left behind by crashed
// attempts. The sweep only ever touches processes whose parent is dead or
// that are already zombies, so concurrent attempts can never kill each
// other's browsers.
package procs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"
)

var browserNames = []string{"chrome", "chromium", "headless_shell"}

// Sweeper periodically scans /proc for stray browser processes.
type Sweeper struct {
	interval time.Duration
	selfPID  int
	log      *slog.Logger
}

// NewSweeper creates a Sweeper that scans at the given interval.
func NewSweeper(interval time.Duration) *Sweeper {
	return &Sweeper{
		interval: interval,
		selfPID:  os.Getpid(),
		log:      slog.Default().With("component", "procs"),
	}
}

// Run blocks until the context is canceled, sweeping once immediately and
// then on every tick. No-op on non-Linux platforms.
func (s *Sweeper) Run(ctx context.Context) {
	if runtime.GOOS != "linux" {
		return
	}
	s.Sweep()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep kills browser processes that are orphaned (reparented to init) or
// zombies. Processes parented by the current process are always skipped:
// those belong to live attempts.
func (s *Sweeper) Sweep() {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return
	}
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid == s.selfPID {
			continue
		}
		comm, ppid, state, ok := readStat(pid)
		if !ok || !isBrowserComm(comm) {
			continue
		}
		if ppid == s.selfPID {
			continue
		}
		orphaned := ppid == 1
		zombie := state == "Z"
		if !orphaned && !zombie {
			continue
		}
		if err := syscall.Kill(pid, syscall.SIGKILL); err == nil {
			s.log.Info("killed stray browser process",
				"pid", pid, "comm", comm, "orphaned", orphaned, "zombie", zombie)
		}
	}
}

// readStat parses /proc/<pid>/stat into (comm, ppid, state).
func readStat(pid int) (string, int, string, bool) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return "", 0, "", false
	}
	// Format: pid (comm) state ppid ... where comm may contain spaces,
	// so split around the parentheses.
	text := string(data)
	open := strings.IndexByte(text, '(')
	close := strings.LastIndexByte(text, ')')
	if open < 0 || close < open {
		return "", 0, "", false
	}
	comm := text[open+1 : close]
	rest := strings.Fields(text[close+1:])
	if len(rest) < 2 {
		return "", 0, "", false
	}
	ppid, err := strconv.Atoi(rest[1])
	if err != nil {
		return "", 0, "", false
	}
	return comm, ppid, rest[0], true
}

func isBrowserComm(comm string) bool {
	comm = strings.ToLower(comm)
	for _, name := range browserNames {
		if strings.Contains(comm, name) {
			return true
		}
	}
	return false
}
