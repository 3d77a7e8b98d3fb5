// Package segment cuts fixed-length multichannel windows out of a sample
// stream.
//
// Two policies implement [Segmenter]:
//
//   - [WallClock] paces windows in real time. Next blocks with bounded
//     sleeps until the segment duration has elapsed since the previous
//     window, then returns the newest n samples. Windows can overlap when
//     acquisition lags behind the wall clock.
//   - [Continuous] tiles the stream into disjoint consecutive windows. Next
//     never blocks and returns (nil, nil) while fewer than n unread samples
//     exist.
//
// Neither policy emits partial or zero-padded windows. The wall-clock policy
// waits indefinitely on a stalled source, so callers pass a context with a
// deadline.
package segment
