package event

// ActiveChanged is the payload of TopicActiveChanged. Ids are "" when no
// item was or is active.
type ActiveChanged struct {
	Origin   string
	Previous string
	Current  string
}

// ScrollCompleted is the payload of TopicScrollCompleted.
type ScrollCompleted struct {
	ID string
	Y  float64
}

// DocumentReloaded is the payload of TopicDocumentReloaded.
type DocumentReloaded struct {
	Path  string
	Items int
}

// ConfigReloaded is the payload of TopicConfigReloaded.
type ConfigReloaded struct {
	Path string
}
