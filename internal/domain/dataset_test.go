package domain

import (
	"errors"
	"testing"
)

func testCatalog() *Catalog {
	return &Catalog{Datasets: []Dataset{
		{Name: "floor1", Title: "Floor 1", Devices: []Device{
			{ID: "core", Tags: []string{TagCore}},
			{ID: "sw1", Tags: []string{TagSwitch}},
		}},
		{Name: "floor2", Devices: []Device{
			{ID: "core", Name: "duplicate", Tags: []string{TagCore}},
			{ID: "sw2", Tags: []string{TagSwitch}},
		}},
	}}
}

func TestCatalogAllDevices(t *testing.T) {
	devices := testCatalog().AllDevices()

	if len(devices) != 3 {
		t.Fatalf("expected 3 unique devices, got %d", len(devices))
	}
	if devices[0].ID != "core" || devices[0].Name != "" {
		t.Errorf("expected first occurrence of core to win, got %+v", devices[0])
	}
}

func TestCatalogDataset(t *testing.T) {
	cat := testCatalog()

	t.Run("finds by name", func(t *testing.T) {
		ds, err := cat.Dataset("floor2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ds.DisplayTitle() != "floor2" {
			t.Errorf("expected name fallback for title, got %s", ds.DisplayTitle())
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := cat.Dataset("basement")
		if !errors.Is(err, ErrUnknownDataset) {
			t.Errorf("expected ErrUnknownDataset, got %v", err)
		}
	})
}

func TestCatalogScopes(t *testing.T) {
	scopes := testCatalog().Scopes()
	want := []string{ScopeAll, "floor1", "floor2"}

	if len(scopes) != len(want) {
		t.Fatalf("expected %v, got %v", want, scopes)
	}
	for i := range want {
		if scopes[i] != want[i] {
			t.Errorf("scope %d: expected %s, got %s", i, want[i], scopes[i])
		}
	}
}

func TestCatalogDevices(t *testing.T) {
	cat := testCatalog()

	all, err := cat.Devices(ScopeAll)
	if err != nil || len(all) != 3 {
		t.Errorf("expected 3 devices for all scope, got %d (err %v)", len(all), err)
	}

	floor, err := cat.Devices("floor1")
	if err != nil || len(floor) != 2 {
		t.Errorf("expected 2 devices for floor1, got %d (err %v)", len(floor), err)
	}

	if _, err := cat.Devices("nope"); !errors.Is(err, ErrUnknownDataset) {
		t.Errorf("expected ErrUnknownDataset, got %v", err)
	}
}
