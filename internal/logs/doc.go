// Package logs reads the meetcheck session log for `meetcheck logs`.
//
// Last returns the final lines of the file with bounded memory; Follow then
// streams appended lines until the context ends, restarting from the top if
// the file is truncated underneath it.
package logs
