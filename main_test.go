package main

import (
	"testing"

	"fruit-memory/config"
)

func TestRunSimulation(t *testing.T) {
	cfg := config.Defaults()
	cfg.Symbols = []string{"Apple", "Banana", "Orange"}
	cfg.ResolutionDelayMS = 100

	if err := runSimulation(cfg, 3, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunSimulationWithoutProfiles(t *testing.T) {
	cfg := config.Defaults()
	cfg.AutoplayProfiles = nil

	if err := runSimulation(cfg, 1, 1); err == nil {
		t.Error("expected an error without autoplay profiles")
	}
}
