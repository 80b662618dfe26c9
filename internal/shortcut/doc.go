// Package shortcut routes keyboard chords from the dashboard client to
// subscribed handlers.
//
// Every binding is an explicit Subscription. Closing the subscription
// removes the handler, so a component that owns bindings releases them
// when it goes away instead of leaving listeners behind:
//
//	d := shortcut.NewDispatcher()
//	sub := d.Subscribe(func(e shortcut.Event) bool { ... })
//	defer sub.Close()
//
//	if d.Dispatch(ev) {
//		// handled: the client suppresses the platform default
//	}
//
// Chords are written as "mod+z" or "mod+shift+z", where mod is the
// platform's primary modifier (Ctrl, or Cmd on macOS).
package shortcut
