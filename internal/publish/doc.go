// Package publish replaces the published audio asset only after a build has
// fully succeeded.
//
// A Guard serializes builds with a lock file beside the asset, gives each
// build a scratch directory under the staging root, and commits the result
// with a verified backup followed by an atomic rename. Anything that fails
// before the commit leaves the existing asset untouched.
package publish
