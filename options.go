package resource

// Options control how root resource classes are created and registered.
type Options struct {
	// RejectUnconstructible refuses classes without an eligible constructor.
	RejectUnconstructible bool `path:"rejectUnconstructible"`

	// RejectIllegalContext refuses classes reporting Context
	// annotations on illegal types, even if another constructor
	// was selected.
	RejectIllegalContext bool `path:"rejectIllegalContext"`

	// IncludeUnexported considers unexported named functions
	// as constructors.
	IncludeUnexported bool `path:"includeUnexported"`

	// Verbosity of the creation logs.
	Verbosity int `path:"verbosity"`
}
