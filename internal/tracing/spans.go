package tracing

// Span attribute keys.
const (
	AttrCatalogSource   = "catalog.source"
	AttrCatalogEntries  = "catalog.entries"
	AttrCatalogInserted = "catalog.inserted"
	AttrCatalogReplaced = "catalog.replaced"

	AttrSnapshotGUID       = "snapshot.guid"
	AttrSnapshotLabel      = "snapshot.label"
	AttrSnapshotGeneration = "snapshot.generation"
	AttrSnapshotBase       = "snapshot.base_count"
	AttrSnapshotDerived    = "snapshot.derived_count"

	AttrWatchPath = "watch.path"
)

// Span name prefixes.
const (
	SpanPrefixCatalog = "catalog."
	SpanPrefixStore   = "store."
	SpanPrefixWatch   = "watch."
)
