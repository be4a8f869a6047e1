// Package runtimepath locates the linkpeek control socket.
package runtimepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SocketEnv overrides the socket location when set.
const SocketEnv = "LINKPEEK_SOCKET"

// maxSocketPath is sizeof(sockaddr_un.sun_path) minus the terminator.
const maxSocketPath = 107

// ErrSocketPathTooLong is returned when the socket path cannot be bound.
var ErrSocketPathTooLong = errors.New("socket path too long")

// Dir returns the runtime directory used for the IPC socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/linkpeek-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/linkpeek-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return checkLength(p)
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return checkLength(filepath.Join(runtimeDir, "linkpeek.sock"))
}

func checkLength(path string) (string, error) {
	if len(path) > maxSocketPath {
		return "", fmt.Errorf("%w: %d bytes (max %d): %s", ErrSocketPathTooLong, len(path), maxSocketPath, path)
	}
	return path, nil
}
