// Package timeline compiles a script into the stage timeline consumed by the
// show player.
//
// Dialogue lines and stage events are merged into one sequence ordered by
// start time, with ties kept in encounter order. Scenes are normalized so they
// cover [0, ContainerEnd] with no gaps or overlaps, whatever the author wrote.
package timeline
