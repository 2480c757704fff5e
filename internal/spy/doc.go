// Package spy highlights the navigation item whose section is currently in
// view and animates scrolling to a section when its item is activated.
//
// # Architecture
//
//	host events ──► Spy ──► resolve.Active ──► marker + ChangeEvent
//	                 │
//	click ───────────┴────► animate.Animator ──► Location.ReplaceFragment
//
// A Spy owns a registry of items (registry.Registry), the resolution state
// and one animator. Passive tracking runs on every scroll notification. A
// click suspends tracking (unless Options.AlwaysTrack is set), marks the
// clicked item eagerly and resumes tracking when the animation completes,
// so the marker does not flicker across the sections the animation passes.
//
// # Threading
//
// A Spy is single-threaded. The host must deliver scroll, structure, click
// and frame callbacks on one goroutine, and must call the Spy's methods from
// that goroutine as well.
package spy
