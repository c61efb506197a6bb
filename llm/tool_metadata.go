package llm

// ToolCapability is a coarse, provider-facing classification of what a
// tool is allowed to do. It's a simpler signal than ToolAnnotations'
// boolean hints, meant for callers that just need to bucket a tool
// rather than reason about its full annotation set.
type ToolCapability string

const (
	// ToolCapabilityReadOnly tools never modify state outside the call
	// itself (e.g. reading a file, listing a directory).
	ToolCapabilityReadOnly ToolCapability = "read_only"

	// ToolCapabilityMutating tools change state but can be undone or
	// repeated safely (e.g. writing a file, editing a todo list).
	ToolCapabilityMutating ToolCapability = "mutating"

	// ToolCapabilityDestructive tools can cause irreversible loss (e.g.
	// deleting a file, running an arbitrary shell command).
	ToolCapabilityDestructive ToolCapability = "destructive"
)

// ToolMetadata describes a tool's version and capability level.
type ToolMetadata struct {
	Version    string
	Capability ToolCapability
}

// ToolWithMetadata is implemented by tools that can report a
// ToolMetadata alongside their Tool definition.
type ToolWithMetadata interface {
	Tool
	Metadata() ToolMetadata
}
