// Package engine orchestrates document processing: it validates part
// facts, runs the resolvers and estimators to build property suggestions,
// evaluates them against policy, writes the approved set back to the
// document's property cache, and persists the run and its audit trail.
//
// Errors are classified (transient, validation, permanent) so callers can
// decide between retrying, rejecting input, and giving up.
package engine
