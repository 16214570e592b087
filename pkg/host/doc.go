// Package host provides location.Host implementations.
//
// Memory keeps a hash and its history in process. It behaves like a
// browser's window.location.hash: values are stored with a leading "#",
// setting the value it already has does nothing, and every change is
// reported to subscribers, including moves through history.
package host
