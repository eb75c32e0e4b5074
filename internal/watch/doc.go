// Package watch re-aligns files when they change on disk.
//
// A Watcher registers every directory the project walker would enter with
// fsnotify, collects write and create events for matching files and, once
// the debounce window has passed without new events, runs the driver on the
// batch. Writes made by the driver itself produce one more event that
// resolves as unchanged, so the loop settles.
package watch
