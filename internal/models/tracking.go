package models

// TrackingStatus describes the managed tracking server process
type TrackingStatus struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	Pid     int    `json:"pid"`     // 0 when no pid file exists
	PidFile string `json:"pidFile"` // path the pid was read from
	Running bool   `json:"running"` // process liveness
	Healthy bool   `json:"healthy"` // health endpoint probe result
}
