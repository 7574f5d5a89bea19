// Package allocation models hierarchical portfolio allocations and the
// drill-down charts that display them.
//
// Allocation data arrives as flat records. Each record carries a structural
// id: one slot per level of a Hierarchy, slot 0 being the leaf level (the
// asset) and the last slot the top level (the asset class, say). A record
// whose lower slots are unspecified is an aggregator: it describes a whole
// slice of the portfolio rather than a single asset.
//
// The package provides:
//   - Hierarchy utilities: level lookup, level index inference and the
//     structural and parent keys of a record.
//   - Fractal mapping: MapFractalHierarchy links flat records into a tree of
//     allocations, each node knowing its sub-allocations and its
//     super-allocation.
//   - Drill-down data sources: MultiLevelDataSource filters flat records level
//     by level, FractalDataSource walks a mapped plan. Both materialize chart
//     datasets lazily and cache them by navigation key.
//   - A chart Controller that turns segment and background clicks into
//     navigation and redraws.
//   - Encoding of hierarchies, plans and snapshots to and from JSON.
//
// Measures are exact decimals: summing 0.1 and 0.2 yields 0.3.
package allocation
