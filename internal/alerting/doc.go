// Package alerting holds the pure rule engines behind both alert tracks.
//
// The mood/behaviour/survey track computes a base level from recent low-mood
// days and then folds an ordered list of escalation rules over it. A rule can
// raise the level or attach a trigger tag; it can never lower the level. The
// emotion track looks at a short window of emotion samples and either fires
// (action) or reports stable.
//
// Nothing in this package touches storage or the clock; callers pass a
// Snapshot with Now already fixed.
package alerting
