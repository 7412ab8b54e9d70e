// Package ir provides the value and record types shared by every journalized package.
//
// This package contains type definitions and their serialization only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - Attribute values are a sealed set (Null, String, Int, Bool, Array, Object)
//   - All JSON tags use snake_case
//   - Journal ordering uses version/seq integers, never wall-clock timestamps
package ir
