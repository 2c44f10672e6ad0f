// Package scheduler drives the reminder poll loop.
//
// Lifecycle: STARTING sends the greeting, RUNNING polls the matcher and sends
// whatever is due, STOPPED is reached only through context cancellation and
// sends the farewell. One iteration runs at a time and every send is awaited
// before the next one, so delivery order is digest, exact, upcoming.
package scheduler
