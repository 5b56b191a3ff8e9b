package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	lockDirName   = ".job.lock"
	lockOwnerFile = "owner.json"
)

// InstanceLock guards a data directory against two concurrent job-running
// processes. Lock acquisition is a mkdir, which is atomic on every supported
// filesystem.
type InstanceLock struct {
	lockDir string
}

type lockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireInstanceLock(dataDir string) (InstanceLock, error) {
	target := strings.TrimSpace(dataDir)
	if target == "" {
		return InstanceLock{}, fmt.Errorf("data directory is required")
	}
	if err := Mkdir(target); err != nil {
		return InstanceLock{}, err
	}

	lockDir := filepath.Join(target, lockDirName)
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, lockOwnerFile)
			var owner lockOwner
			if readErr := ReadJSON(ownerPath, &owner); readErr == nil && owner.PID > 0 && owner.CreatedAt != "" {
				return InstanceLock{}, fmt.Errorf(
					"another instance is already running a job (pid=%d created_at=%s host=%s)",
					owner.PID, owner.CreatedAt, owner.Hostname,
				)
			}
			return InstanceLock{}, fmt.Errorf("another instance is already running a job: %s is locked", target)
		}
		return InstanceLock{}, fmt.Errorf("acquire instance lock for %s: %w", target, err)
	}

	owner := lockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	ownerPath := filepath.Join(lockDir, lockOwnerFile)
	if err := WriteJSON(ownerPath, owner); err != nil {
		_ = os.Remove(lockDir)
		return InstanceLock{}, fmt.Errorf("write instance lock owner for %s: %w", target, err)
	}

	return InstanceLock{lockDir: lockDir}, nil
}

func (l InstanceLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, lockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release instance lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
