package executor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessManager is the process-control surface: spawn, terminate, and
// name-matched termination. The real implementation uses os/exec and
// gopsutil; tests substitute it.
type ProcessManager interface {
	// Start spawns the program detached with output streams discarded and
	// returns its PID.
	Start(path string) (int, error)

	// Terminate sends a termination signal to a PID.
	Terminate(pid int) error

	// TerminateMatching terminates every running process whose name
	// contains target (case-insensitive) and returns how many matched.
	TerminateMatching(target string) (int, error)

	// Exists reports whether a PID is still alive.
	Exists(pid int) bool
}

// OSProcessManager implements ProcessManager on the real OS.
type OSProcessManager struct{}

// NewOSProcessManager returns the real process manager.
func NewOSProcessManager() OSProcessManager { return OSProcessManager{} }

func (OSProcessManager) Start(path string) (int, error) {
	cmd := exec.Command(path)
	// nil Stdout/Stderr connect the child to the null device
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	// Reap the child when it exits so it never lingers as a zombie.
	go func() { _ = cmd.Wait() }()
	return pid, nil
}

func (OSProcessManager) Terminate(pid int) error {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return fmt.Errorf("process %d: %w", pid, err)
	}
	return proc.Terminate()
}

func (OSProcessManager) TerminateMatching(target string) (int, error) {
	procs, err := process.Processes()
	if err != nil {
		return 0, fmt.Errorf("enumerate processes: %w", err)
	}

	lowered := strings.ToLower(target)
	terminated := 0
	for _, proc := range procs {
		name, err := proc.Name()
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(name), lowered) {
			if err := proc.Terminate(); err != nil {
				continue
			}
			terminated++
		}
	}
	return terminated, nil
}

func (OSProcessManager) Exists(pid int) bool {
	exists, err := process.PidExists(int32(pid))
	return err == nil && exists
}
