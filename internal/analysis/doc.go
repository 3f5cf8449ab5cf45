// Package analysis provides post-run analysis of simulated paths.
//
//   - [Bin]: equal-width histogram of terminal values
//   - [CheckIncrements]: sample moments of Brownian increments, which
//     should match N(0, dt)
package analysis
