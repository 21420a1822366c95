// Package resolvers implements the manufacturing-parameter lookups: the
// tolerant pipe schedule resolver, the tube cutting parameter resolver and
// the work-center time estimators.
//
// All lookups are pure functions over an explicitly owned TableProvider
// plus the engineering configuration; nothing here holds ambient process
// state, blocks, or retries. A lookup that finds no match reports false,
// never an error; the caller owns the fallback policy.
package resolvers
