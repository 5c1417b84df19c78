// Package audio time-aligns voice clips to their authored slots and
// assembles them into one encoded track.
//
// Plan lays out speech and silence segments so that their cumulative
// durations land every line exactly on its from/to boundaries. Normalizer
// stretches each raw clip to its slot length with a chained atempo filter,
// pads or trims to the exact duration, and resamples to the canonical
// format. Assembler renders silences and concatenates everything.
//
// The probe and the processing tool are injected (Prober, Processor) so the
// planning and filter logic can be exercised without ffmpeg.
package audio
