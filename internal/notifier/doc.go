// Package notifier delivers reminder texts to the single configured recipient.
//
// Each Send is one outbound call on a transport.Sender, awaited to completion.
// Failures are logged and reported as false; there is no retry, queue or
// dedup, so the caller's ordering is the delivery ordering.
//
// Outcomes are also published on the event bus (notify.sent / notify.failed)
// for observers such as debug logging.
package notifier
