package model

import "time"

// ContactMessage is the public contact form payload.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Complete reports whether every field is filled in.
func (m ContactMessage) Complete() bool {
	return m.Name != "" && m.Email != "" && m.Message != ""
}

// ChatReply is the assistant's answer to a chat query.
type ChatReply struct {
	Text        string  `json:"text"`
	RelatedLink *string `json:"related_link"`
}

// ServiceStatus is the state of one backend subsystem.
type ServiceStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SystemStatus is the backend's health report.
type SystemStatus struct {
	Status   string          `json:"status"`
	Latency  string          `json:"latency"`
	Version  string          `json:"version"`
	Region   string          `json:"region"`
	Database string          `json:"database"`
	Commit   string          `json:"commit"`
	Services []ServiceStatus `json:"services"`
}

// StatusOperational is the status value of a healthy backend.
const StatusOperational = "Operational"

// OutageStatus is shown when the health endpoint itself cannot be reached.
func OutageStatus() SystemStatus {
	return SystemStatus{Status: "Outage", Services: []ServiceStatus{}}
}

// IsOperational reports whether the backend declared itself healthy.
func (s SystemStatus) IsOperational() bool {
	return s.Status == StatusOperational
}

// RepoStats summarises a public GitHub repository linked from a project.
type RepoStats struct {
	FullName   string
	URL        string
	Stars      int
	Forks      int
	OpenIssues int
	Language   string
	PushedAt   time.Time
}
