package domain

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want NodeKind
	}{
		{"core wins over everything", []string{"Device", "Switch", "Core", "Gateway"}, KindCore},
		{"gateway over switch", []string{"Switch", "Gateway"}, KindGateway},
		{"switch over device", []string{"Device", "Switch"}, KindSwitch},
		{"device", []string{"Device"}, KindDevice},
		{"printer", []string{"Printer"}, KindPrinter},
		{"device over printer", []string{"Printer", "Device"}, KindDevice},
		{"phone", []string{"Phone"}, KindPhone},
		{"unknown tags", []string{"Camera"}, KindOther},
		{"no tags", nil, KindOther},
		{"tags are case sensitive", []string{"core"}, KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.tags); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.tags, got, tt.want)
			}
		})
	}
}

func TestStatusOnline(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusOnline, true},
		{"Online", true},
		{StatusOffline, false},
		{"maintenance", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.status.Online(); got != tt.want {
			t.Errorf("Status(%q).Online() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestDeviceClone(t *testing.T) {
	dev := Device{ID: "a", Tags: []string{"Device"}, ConnectedTo: []string{"b"}}
	clone := dev.Clone()
	clone.Tags[0] = "Switch"
	clone.ConnectedTo[0] = "c"

	if dev.Tags[0] != "Device" {
		t.Errorf("clone shares tags with original: %v", dev.Tags)
	}
	if dev.ConnectedTo[0] != "b" {
		t.Errorf("clone shares adjacency with original: %v", dev.ConnectedTo)
	}
}

func TestDeviceRecord(t *testing.T) {
	t.Run("omits empty optional fields", func(t *testing.T) {
		dev := Device{ID: "pc-1", Name: "PC", Status: StatusOnline}
		rec := dev.Record()

		if _, ok := rec[FieldLocation]; ok {
			t.Error("expected location to be absent")
		}
		if _, ok := rec[FieldTags]; ok {
			t.Error("expected tags to be absent")
		}
		if rec[FieldStatus] != "online" {
			t.Errorf("expected status online, got %v", rec[FieldStatus])
		}
	})

	t.Run("includes metrics as numbers", func(t *testing.T) {
		dev := Device{ID: "pc-1", CPUUsage: 42.5}
		if v, ok := dev.Record()[FieldCPUUsage].(float64); !ok || v != 42.5 {
			t.Errorf("expected cpuUsage 42.5, got %v", dev.Record()[FieldCPUUsage])
		}
	})
}
