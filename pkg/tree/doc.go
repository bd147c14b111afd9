// Package tree turns inferred or explicit edges into a nested display
// forest suitable for JSON export and interactive browsing.
//
// [Build] returns freshly allocated [taxonomy.TreeNode] values; callers may
// mutate them (for example to toggle Expanded) without affecting later
// builds. [Walk], [Count], [Depth] and [Flatten] are small helpers over the
// resulting forest.
package tree
