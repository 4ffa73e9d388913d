package messaging

import "testing"

type fakeDetector struct {
	starts int
	stops  int
}

func (f *fakeDetector) Start() error { f.starts++; return nil }
func (f *fakeDetector) Stop() error  { f.stops++; return nil }

func TestDispatchControl(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		starts  int
		stops   int
	}{
		{"start command", `{"action": "start"}`, 1, 0},
		{"stop command", `{"action": "stop"}`, 0, 1},
		{"unknown action", `{"action": "reboot"}`, 0, 0},
		{"malformed payload", `not json`, 0, 0},
		{"empty payload", ``, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			det := &fakeDetector{}
			dispatchControl(det, []byte(tc.payload))
			if det.starts != tc.starts {
				t.Errorf("Expected %d starts, got %d", tc.starts, det.starts)
			}
			if det.stops != tc.stops {
				t.Errorf("Expected %d stops, got %d", tc.stops, det.stops)
			}
		})
	}
}
