package tracing

// Span attribute keys for store tracing.
const (
	AttrClientID    = "client.id"
	AttrClientCount = "client.count"
	AttrSlotBackend = "slot.backend"
	AttrSlotPath    = "slot.path"
	AttrSlotBytes   = "slot.bytes"
)

// Span name prefixes.
const (
	SpanPrefixStore = "store."
	SpanPrefixSlot  = "slot."
)

// Event names for span events.
const (
	EventNotFound  = "client.not_found"
	EventCacheHit  = "cache.hit"
	EventCacheMiss = "cache.miss"
)
