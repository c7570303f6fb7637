package main

import (
	"testing"

	"ebiten-floors/components"
	"ebiten-floors/config"
	"ebiten-floors/spawners"
	"ebiten-floors/viewer"
)

func testGenerator(t *testing.T, start string) (viewer.Generator, error) {
	t.Helper()
	templates, err := loadTemplates("")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default().Generation
	cfg.Depth = 2
	cfg.StartFloor = start
	return newGenerator(cfg, spawners.NewObjectSpawner(templates))
}

func TestNewGeneratorStartFloor(t *testing.T) {
	generate, err := testGenerator(t, "main:2")
	if err != nil {
		t.Fatal(err)
	}
	reg, err := generate(7)
	if err != nil {
		t.Fatal(err)
	}
	if want := (components.FloorID{Branch: "main", Depth: 2}); reg.Active().ID != want {
		t.Errorf("active floor = %v, want %v", reg.Active().ID, want)
	}
	if reg.Len() != 2 {
		t.Errorf("floors = %d", reg.Len())
	}
}

func TestNewGeneratorRejectsBadStartFloor(t *testing.T) {
	for _, start := range []string{"main:3", "mines:1", "main"} {
		if _, err := testGenerator(t, start); err == nil {
			t.Errorf("start floor %q accepted", start)
		}
	}
	if _, err := testGenerator(t, ""); err != nil {
		t.Errorf("empty start floor: %v", err)
	}
}
