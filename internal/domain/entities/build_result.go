package entities

import "time"

// BuildResult records what one orchestrator run did
type BuildResult struct {
	State            BuildState
	Platform         Platform
	Wheel            *Wheel
	RepairedWheels   []*Wheel
	BundledLibraries []string
	Sidecars         []string
	CleanDuration    time.Duration
	BuildDuration    time.Duration
	RepairDuration   time.Duration
	TotalDuration    time.Duration
	Error            error
}
