// Package memory sets GOMEMLIMIT for containerized deployments.
//
// Go detects cgroup CPU limits for GOMAXPROCS but not memory limits. Call
// [ConfigureFromEnv] first thing in main:
//
//   - GOMEMLIMIT: standard Go variable; when set it wins and is only reported.
//   - MEMORY_LIMIT: container limit in bytes, typically from the Kubernetes
//     Downward API (resources.limits.memory).
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap, between 0 and 1.
//     Defaults to 0.9; the rest covers SQLite page cache and goroutine stacks.
package memory
