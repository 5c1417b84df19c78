// Package preflight provides readiness checks for the filesystem paths,
// external tools, and synthesis provider that pilotcast depends on.
//
// The build command runs RunAll before touching the published asset so a
// missing tool or unwritable directory fails fast. The status command uses
// the individual checks to display environment health.
package preflight
