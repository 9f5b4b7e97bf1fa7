package models

// DateRange is an inclusive travel window in YYYY-MM-DD form.
type DateRange struct {
	Start string
	End   string
}

// Destination is a catalog entry the group votes on.
// Destinations are read-mostly and do not change during a voting window.
type Destination struct {
	// ID is an opaque identifier. Only ever compared for equality.
	ID string

	// Resort is the resort or area name (e.g., "Whistler Blackcomb").
	Resort string

	// Accommodation is the lodging offered with the package.
	Accommodation string

	// Price is the per-person package price.
	Price float64

	// Dates is the travel window of the package.
	Dates DateRange
}
