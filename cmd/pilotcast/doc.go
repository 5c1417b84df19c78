// Command pilotcast compiles an authored show script into the artifacts the
// web player loads: the stage timeline (script.json), per-language WebVTT
// captions, and optionally the mixed dialogue track (pilot.mp3).
//
// Audio builds synthesize each line through a content-addressed segment
// cache, retime the clips to their authored slots with ffmpeg, and replace
// the published track only after the whole build has succeeded.
package main
