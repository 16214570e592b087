// Package location keeps an application's navigational state in sync with
// a host's location hash.
//
// A Location owns the current Snapshot, an immutable view of the decoded
// path and options. Whenever the host's hash changes, by any means, the
// Location decodes it into a brand-new Snapshot and then notifies its
// subscribers in order. Mutations are issued through a Snapshot:
//
//	loc := location.New(h)
//	cur := loc.Current()
//	cur.Go(hashpath.Path{"system", "logs"}, hashpath.Options{})
//
// A mutation made through a Snapshot that is no longer current is silently
// dropped. This keeps callbacks that captured an old Snapshot from acting on
// a navigation context the user has already left.
//
// A Location is not safe for concurrent use. The host's change callbacks and
// all mutations must run on one goroutine; hosts are allowed to call back
// synchronously from Push and Replace.
package location
