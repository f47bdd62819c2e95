// Package flash provides the session flash bag that toast.Store works on.
//
// A Session loads a bag from storage at the start of a request and commits
// whatever was not consumed at the end, so a toast added before a redirect
// is shown on the next request and then gone.
package flash
