// Package watch keeps a live content snapshot in preview mode: it watches the
// data directory, reloads on change and notifies browsers over server-sent events.
package watch
