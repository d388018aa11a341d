// Package stage draws placed leaderboard records as a snowy ski-jump scene.
//
// Three sinks share one layout:
//
//   - [RenderHTML]: a complete HTML page with CSS snowfall and avatar
//     checkpoints positioned absolutely over an SVG backdrop
//   - [RenderSVG]: a standalone SVG of the same scene, suitable for
//     rsvg-convert (PNG/PDF) or embedding
//   - [RenderJSON]: the placement itself, for other front ends
//
// Output depends only on the placed records and [Options]. Snowflake
// positions come from a generator seeded by Options.Seed, independent of
// the jitter stream used during placement, so the same input renders the
// same bytes.
//
// All user-supplied text is escaped. Image references that fail
// [errors.ValidateImageRef] are dropped and the checkpoint is drawn empty.
package stage
