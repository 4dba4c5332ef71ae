// Package op provides the core data model for trace analysis.
//
// This package contains type definitions only. All other internal packages
// import op; op imports nothing internal. This keeps the data model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Sequence numbers are global logical clock values, never wall-clock
//     timestamps. They are the sole basis for ordering decisions.
//   - An Operation is immutable once built. The descriptor field is only
//     meaningful while the owning process's trace is being consumed.
//   - All JSON tags use snake_case.
package op
