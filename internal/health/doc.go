// Package health holds the shared, process-lifetime diagnostic state updated
// by resilient calls: the per-operation attempt log and the last-known health
// of each logical service.
//
// Both types are safe for concurrent use and are meant to be created once and
// passed by reference to every executor that should report into them.
package health
