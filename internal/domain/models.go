package domain

// Tag represents a selectable label
type Tag struct {
	ID   string `toml:"id"`
	Name string `toml:"name"` // selection key; distinct tags may share a name
}

// TagNames returns the names of the given tags in order
func TagNames(tags []Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
