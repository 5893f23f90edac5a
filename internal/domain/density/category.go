// Package density implements spatial density analysis of occurrence points:
// per-point neighbor counts, categorical density levels, and fixed-radius
// connected-components clustering.
package density

// Category is a discrete bucket summarising how many other occurrence points
// lie within the clustering radius of a given point.
type Category string

const (
	CategoryVeryHigh Category = "very_high"
	CategoryHigh     Category = "high"
	CategoryMedium   Category = "medium"
	CategoryLow      Category = "low"
	CategoryVeryLow  Category = "very_low"

	// CategoryIsolated marks a point with no neighbors inside the radius;
	// such points never join a cluster.
	CategoryIsolated Category = "isolated"
)

// CategoryForCount maps a neighbor count to its density category.  The
// thresholds are fixed by calibration on regional occurrence data.
func CategoryForCount(count int) Category {
	switch {
	case count >= 50:
		return CategoryVeryHigh
	case count >= 20:
		return CategoryHigh
	case count >= 10:
		return CategoryMedium
	case count >= 3:
		return CategoryLow
	case count >= 1:
		return CategoryVeryLow
	default:
		return CategoryIsolated
	}
}

// rank orders categories from isolated (0) to very_high (5) so majority ties
// can be broken toward the denser category.
func (c Category) rank() int {
	switch c {
	case CategoryVeryHigh:
		return 5
	case CategoryHigh:
		return 4
	case CategoryMedium:
		return 3
	case CategoryLow:
		return 2
	case CategoryVeryLow:
		return 1
	default:
		return 0
	}
}

// Denser reports whether c is a strictly higher-density category than other.
func (c Category) Denser(other Category) bool { return c.rank() > other.rank() }

// String returns the string representation of the category.
func (c Category) String() string { return string(c) }
