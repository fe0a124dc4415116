package linkframe

import "testing"

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "swipe", "fromX": 300, "fromY": 50, "toX": 20, "toY": 50, "frames": 3},
			{"action": "key", "key": "Enter"},
			{"action": "host", "event": "frame_removed"},
			{"action": "wait", "frames": 5},
			{"action": "screenshot", "label": "after"}
		]
	}`)
	r, err := LoadTestScript(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(r.steps))
	}
	if r.steps[1].key != KeyEnter {
		t.Errorf("step 1 key = %v, want Enter", r.steps[1].key)
	}
	if r.steps[0].Frames != 3 || r.steps[0].ToX != 20 {
		t.Errorf("step 0 = %+v", r.steps[0])
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{invalid`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "fly"}]}`},
		{"unknown key", `{"steps": [{"action": "key", "key": "Tab"}]}`},
		{"unknown host event", `{"steps": [{"action": "host", "event": "frame_exploded"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunnerScriptedSession(t *testing.T) {
	r, err := LoadTestScript([]byte(`{
		"steps": [
			{"action": "swipe", "fromX": 300, "fromY": 50, "toX": 50, "toY": 50, "frames": 2},
			{"action": "wait", "frames": 2},
			{"action": "screenshot", "label": "recent"},
			{"action": "host", "event": "frame_removed"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, &fakeClock{now: 1})
	s.SetTestRunner(r)

	var views []View
	s.Machine().OnChange(func(tr Transition) { views = append(views, tr.To.CurrentView) })

	now := int64(1000)
	for i := 0; i < 50 && !r.Done(); i++ {
		s.Update(now)
		now += 16
	}
	if !r.Done() {
		t.Fatal("runner did not finish")
	}
	if len(views) != 2 || views[0] != ViewRecent || views[1] != ViewMain {
		t.Errorf("views = %v, want [recent main]", views)
	}
	shots := s.TakeScreenshots()
	if len(shots) != 1 || shots[0] != "recent" {
		t.Errorf("screenshots = %v, want [recent]", shots)
	}
}

func TestRunnerWaitsForInjectQueue(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps": [
		{"action": "swipe", "fromX": 0, "fromY": 0, "toX": 100, "toY": 0, "frames": 4},
		{"action": "key", "key": "ArrowRight"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, &fakeClock{now: 1})
	s.SetTestRunner(r)

	// Frame 1 queues the swipe and consumes the press.
	s.Update(100)
	if r.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", r.cursor)
	}
	// The key step waits until the three remaining swipe events drain.
	for i := 0; i < 3; i++ {
		s.Update(int64(200 + i*100))
		if r.cursor != 1 {
			t.Fatalf("frame %d: cursor advanced while queue busy", i+2)
		}
	}
	s.Update(600)
	if r.cursor != 2 {
		t.Errorf("cursor = %d, want 2", r.cursor)
	}
}

func TestRunnerDone(t *testing.T) {
	r, err := LoadTestScript([]byte(`{"steps": [{"action": "screenshot", "label": "only"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, &fakeClock{now: 1})
	s.SetTestRunner(r)
	s.Update(10)
	if !r.Done() {
		t.Error("single-step script should finish on its frame")
	}
	s.Update(20)
	if got := s.TakeScreenshots(); len(got) != 1 {
		t.Errorf("screenshots = %v, want exactly one", got)
	}
}
