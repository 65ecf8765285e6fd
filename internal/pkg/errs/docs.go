// Package errs provides the standard error taxonomy for the dispatch module.
//
// Every externally surfaced failure belongs to exactly one kind:
//   - ValueIsInvalidError / ValueIsRequiredError: validation failures, never retried
//   - ObjectNotFoundError: a referenced entity does not exist
//   - ConflictError: a conditional write matched zero rows (race lost), never
//     retried automatically
//   - TransportError: network/timeout failure, retryable per the retry policy
//   - AuthError: authentication/authorization failure, never retried
//   - CorruptDataError: a fetched record failed to parse
//
// Each kind follows a consistent pattern:
//   - a sentinel error variable (e.g. ErrConflict) usable with errors.Is
//   - a struct type carrying the failure details plus an optional Cause
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// Callers classify errors through the sentinels, never by string matching,
// which keeps retry and HTTP mapping decisions in one place.
package errs
