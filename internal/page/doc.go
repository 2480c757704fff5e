// Package page adapts a laid out document and a scroll position into a
// complete host for the scroll spy.
//
// Page owns the viewport, scroll and structure notifications, and the
// location fragment. TimerScheduler provides wall-clock animation frames
// whose callbacks are posted back onto the owning goroutine.
package page
