// Package linkframe is the interaction core of a link-list Frame: a small
// app that shows pinned and recently visited links across three views and
// lets the user move between them with swipes or the keyboard.
//
// # Quick start
//
// Create a [Session], feed it input, and call [Session.Update] once per
// frame from the goroutine that owns the UI:
//
//	sess, err := linkframe.NewSession(linkframe.SessionConfig{Width: 400})
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//
//	// per frame
//	sess.Target().Dispatch(deviceEvent) // raw touch / mouse input
//	sess.HandleKey(linkframe.KeyArrowRight)
//	sess.Update(sess.Now())
//	state := sess.Snapshot()
//
// The ebitenui and tui packages are ready-made front-ends.
//
// # Input pipeline
//
// Platforms dispatch [DeviceEvent]s into an [EventTarget]. The
// [InputAdapter] normalizes touch and mouse families into one
// [PointerEvent] stream with velocity and long-press detection; long-press
// timers run on a [Scheduler] advanced by Update, so every callback fires on
// the frame goroutine. The [SwipeRecognizer] turns released interactions
// into swipes when they clear the velocity or displacement threshold.
//
// # View state
//
// The [Machine] owns the [ViewState]. Swipes, keys, UI requests, and the
// host's frame_removed event are its only inputs. Each mutation is
// persisted to a [Store] under [StorageKey] and broadcast as a
// [Transition]; an unreadable stored value is replaced by the default.
//
// # Links
//
// A [LinkBook] on top of a [LinkStore] records visits and pins. The
// sqlitestore package persists both links and view state.
package linkframe
