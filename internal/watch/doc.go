// Package watch reports edits to individual files.
//
// Editors save in different ways: some write in place, some write a
// temporary file and rename it over the original. The watcher follows the
// parent directories and filters by name so both are seen, and it
// debounces bursts of events into one change per file.
package watch
