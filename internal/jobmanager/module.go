package jobmanager

// Module describes the work a Job performs. It is used for display only.
type Module struct {
	Name            string   `json:"name"`
	Options         []Option `json:"options,omitempty"`
	AdvancedOptions []Option `json:"advanced_options,omitempty"`
}

// Option is a single configured setting of a Module.
type Option struct {
	Name        string `json:"name"`
	Value       any    `json:"value"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// HasOptions reports whether the Module has any basic options to show.
func (m Module) HasOptions() bool {
	return len(m.Options) > 0
}
