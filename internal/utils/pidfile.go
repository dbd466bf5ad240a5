package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

/**
 * Write process id to a pid file
 * @param {string} path - Pid file path
 * @param {int} pid - Process id to record
 * @returns {error} Returns error if directory creation or write fails
 * @description
 * - Ensures the parent directory exists
 * - Writes the pid as a single decimal line
 */
func WritePidFile(path string, pid int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create pid file directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %v", err)
	}
	return nil
}

/**
 * Read process id from a pid file
 * @param {string} path - Pid file path
 * @returns {int} Recorded process id
 * @returns {error} Returns error if file is missing or malformed
 */
func ReadPidFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid file '%s': %v", path, err)
	}
	return pid, nil
}

// RemovePidFile removes the pid file, ignoring a missing file
func RemovePidFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
