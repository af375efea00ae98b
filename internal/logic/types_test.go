package logic

import "testing"

func TestLevelFor(t *testing.T) {
	tests := []struct {
		count, capacity uint32
		want            Level
	}{
		{0, 10, LevelLow},
		{4, 10, LevelLow},
		{5, 10, LevelMedium},
		{8, 10, LevelMedium},
		{9, 10, LevelHigh},
		{10, 10, LevelFull},
		{11, 10, LevelFull},
		{0, 0, LevelFull},
		{40, 100, LevelLow},
		{41, 100, LevelMedium},
		{81, 100, LevelHigh},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.count, tt.capacity); got != tt.want {
			t.Errorf("LevelFor(%d, %d) = %s, want %s", tt.count, tt.capacity, got, tt.want)
		}
	}
}

func TestSignalFor(t *testing.T) {
	tests := map[EventType]Signal{
		EventApproach:       SignalNone,
		EventHealthPassed:   SignalNone,
		EventEntryIgnored:   SignalNone,
		EventAccessGranted:  SignalGrant,
		EventCapacityDenied: SignalDeny,
		EventHealthDenied:   SignalDeny,
		EventExit:           SignalClear,
		EventExitEmpty:      SignalClear,
	}
	for et, want := range tests {
		if got := SignalFor(et); got != want {
			t.Errorf("SignalFor(%s) = %s, want %s", et, got, want)
		}
	}
}

func TestEventMessages(t *testing.T) {
	tests := map[EventType]string{
		EventApproach:       "Individual approaching",
		EventCapacityDenied: "Maximum Capacity Reached. Access Denied.",
		EventHealthPassed:   "Health Check Passed.",
		EventAccessGranted:  "Health Check Passed. Access Granted.",
		EventHealthDenied:   "Health Check Failed. Access Denied.",
		EventEntryIgnored:   "No recent person detected. Ignoring entry.",
		EventExit:           "Exit Button Pressed.",
		EventExitEmpty:      "Exit Pressed but no one inside.",
		EventType("OTHER"):  "OTHER",
	}
	for et, want := range tests {
		if got := et.Message(); got != want {
			t.Errorf("%s: got %q, want %q", et, got, want)
		}
	}
}

func TestCountChanged(t *testing.T) {
	for _, et := range []EventType{EventAccessGranted, EventExit} {
		if !et.CountChanged() {
			t.Errorf("%s should change the count", et)
		}
	}
	for _, et := range []EventType{EventApproach, EventCapacityDenied, EventHealthPassed, EventHealthDenied, EventEntryIgnored, EventExitEmpty} {
		if et.CountChanged() {
			t.Errorf("%s should not change the count", et)
		}
	}
}

func TestButtonsAny(t *testing.T) {
	if (Buttons{}).Any() {
		t.Error("no buttons pressed")
	}
	if !(Buttons{Exit: true}).Any() {
		t.Error("exit pressed")
	}
}

func TestSignalString(t *testing.T) {
	if SignalGrant.String() != "GRANT" || SignalDeny.String() != "DENY" || SignalClear.String() != "CLEAR" || SignalNone.String() != "NONE" {
		t.Error("unexpected signal names")
	}
	if Signal(9).String() != "UNKNOWN" {
		t.Error("expected UNKNOWN for out-of-range signal")
	}
}
