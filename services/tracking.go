package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"bankrec/internal/config"
	"bankrec/internal/logger"
	"bankrec/internal/models"
	"bankrec/internal/utils"
)

const (
	trackingCommand = "mlflow"
	healthAttempts  = 10
	healthInterval  = time.Second
)

/**
 * TrackingManager launches and supervises the MLflow tracking server
 * @property {string} Host - Bind host, flag > MLFLOW_HOST > config default
 * @property {int} Port - Bind port, flag > MLFLOW_PORT > config default
 * @property {string} BackendStoreURI - Experiment metadata database URI
 * @property {string} ArtifactRoot - Artifact storage directory
 * @property {string} PidFile - Path recording the launched server pid
 * @description
 * - One-shot supervisor: install check, artifact directory, port conflict
 *   check, detached launch, pid persistence, bounded readiness polling
 * - Readiness polling is soft-fail: an unready server is reported but not
 *   treated as a launch failure, the process is presumed to still be
 *   starting
 */
type TrackingManager struct {
	Host            string
	Port            int
	BackendStoreURI string
	ArtifactRoot    string
	PidFile         string

	Command        string
	HealthAttempts int
	HealthInterval time.Duration

	client *http.Client
}

func NewTrackingManager(cfg *config.TrackingConfig) *TrackingManager {
	return &TrackingManager{
		Host:            cfg.Host,
		Port:            cfg.Port,
		BackendStoreURI: cfg.BackendStoreURI,
		ArtifactRoot:    cfg.ArtifactRoot,
		PidFile:         cfg.PidFile,
		Command:         trackingCommand,
		HealthAttempts:  healthAttempts,
		HealthInterval:  healthInterval,
		client:          &http.Client{Timeout: 2 * time.Second},
	}
}

/**
 * Resolve bind address from flag, environment and configuration
 * @param {string} flagHost - --host flag value, empty when absent
 * @param {int} flagPort - --port flag value, 0 when absent
 * @description
 * - Flags win over MLFLOW_HOST/MLFLOW_PORT, which win over config defaults
 * - An unparsable MLFLOW_PORT is ignored
 */
func (tm *TrackingManager) ResolveAddress(flagHost string, flagPort int) {
	if flagHost != "" {
		tm.Host = flagHost
	} else if envHost := os.Getenv("MLFLOW_HOST"); envHost != "" {
		tm.Host = envHost
	}

	if flagPort > 0 {
		tm.Port = flagPort
	} else if envPort := os.Getenv("MLFLOW_PORT"); envPort != "" {
		if port, err := strconv.Atoi(envPort); err == nil {
			tm.Port = port
		}
	}
}

/**
 * Ensure the tracking server binary is installed
 * @returns {error} The installer's own error, propagated unmodified
 * @description
 * - Looks up the binary on PATH and installs it via pip when absent
 */
func (tm *TrackingManager) EnsureBinary(ctx context.Context) error {
	if _, err := exec.LookPath(tm.Command); err == nil {
		return nil
	}

	fmt.Printf("%s not found, installing...\n", tm.Command)
	install := exec.CommandContext(ctx, "pip", "install", tm.Command)
	install.Stdout = os.Stdout
	install.Stderr = os.Stderr
	return install.Run()
}

/**
 * Start the tracking server detached from the current process
 * @param {context.Context} ctx - Context for the install step
 * @returns {int} Pid of the launched server process
 * @returns {error} Returns error on install failure, port conflict or spawn failure
 * @description
 * - Ensures the binary and the artifact root exist
 * - Aborts when the target port already has a listener, naming the port
 *   and suggesting --port
 * - Launches in a new process group and records the pid for later stop
 */
func (tm *TrackingManager) Start(ctx context.Context) (int, error) {
	if err := tm.EnsureBinary(ctx); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(tm.ArtifactRoot, 0755); err != nil {
		return 0, fmt.Errorf("failed to create artifact root '%s': %v", tm.ArtifactRoot, err)
	}

	if !utils.CheckPortAvailable(tm.Host, tm.Port) {
		return 0, fmt.Errorf("port %d is already in use, choose another one with --port", tm.Port)
	}

	args := []string{
		"server",
		"--host", tm.Host,
		"--port", strconv.Itoa(tm.Port),
		"--backend-store-uri", tm.BackendStoreURI,
		"--default-artifact-root", tm.ArtifactRoot,
	}
	logger.Infof("Executing command: %s %v", tm.Command, args)

	cmd := exec.Command(tm.Command, args...)
	utils.SetNewPG(cmd)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start tracking server: %v", err)
	}

	pid := cmd.Process.Pid
	if err := utils.WritePidFile(tm.PidFile, pid); err != nil {
		logger.Errorf("Tracking server started (PID: %d) but pid file write failed: %v", pid, err)
	} else {
		logger.Infof("Tracking server started (PID: %d), pid file %s", pid, tm.PidFile)
	}

	// Detach: the child must survive this process
	cmd.Process.Release()

	return pid, nil
}

/**
 * Wait for the tracking server to answer its health endpoint
 * @returns {bool} True when the server became ready within the attempt budget
 * @description
 * - Probes /health and falls back to the experiments search API, at fixed
 *   intervals for a fixed number of attempts
 * - Exhausting the budget is not an error, the server may still be starting
 */
func (tm *TrackingManager) WaitReady(ctx context.Context) bool {
	for attempt := 0; attempt < tm.HealthAttempts; attempt++ {
		if tm.probeHealth(ctx) {
			return true
		}
		select {
		case <-time.After(tm.HealthInterval):
		case <-ctx.Done():
			return false
		}
	}
	return false
}

func (tm *TrackingManager) probeHealth(ctx context.Context) bool {
	base := fmt.Sprintf("http://%s:%d", tm.Host, tm.Port)
	for _, path := range []string{"/health", "/api/2.0/mlflow/experiments/search"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
		if err != nil {
			continue
		}
		resp, err := tm.client.Do(req)
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return true
		}
	}
	return false
}

/**
 * Stop the tracking server recorded in the pid file
 * @returns {error} Returns error if no pid file exists or the kill fails
 */
func (tm *TrackingManager) Stop() error {
	pid, err := utils.ReadPidFile(tm.PidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no pid file at %s, is the tracking server running?", tm.PidFile)
		}
		return err
	}

	if err := utils.KillProcessByPID(pid); err != nil {
		return err
	}
	if err := utils.RemovePidFile(tm.PidFile); err != nil {
		logger.Warnf("Failed to remove pid file %s: %v", tm.PidFile, err)
	}

	logger.Infof("Tracking server (PID: %d) stopped", pid)
	return nil
}

// Status reports pid file contents, process liveness and one health probe
func (tm *TrackingManager) Status(ctx context.Context) models.TrackingStatus {
	status := models.TrackingStatus{
		Host:    tm.Host,
		Port:    tm.Port,
		PidFile: tm.PidFile,
	}

	if pid, err := utils.ReadPidFile(tm.PidFile); err == nil {
		status.Pid = pid
		if running, err := utils.IsProcessRunning(pid); err == nil {
			status.Running = running
		}
	}
	status.Healthy = tm.probeHealth(ctx)

	return status
}
