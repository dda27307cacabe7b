// Package calendar acquires event context from the calendar application
// installed on the local machine.
//
// Acquisition is strategy-based: an ordered list of interfaces into the
// local calendar store is attempted until one succeeds, each by spawning a
// single scripted subprocess and parsing its JSON output. Raw records are
// normalized into canonical events, passed through the user's filter
// configuration, and cached as a whole snapshot.
//
// The package is best effort throughout. Acquisition returns an empty
// slice rather than an error, availability is probed once per process, and
// records that cannot be normalized are dropped individually without
// failing the batch.
package calendar
