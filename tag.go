package scm

// TagEndpoint is the REST path for tags.
const TagEndpoint = "/config/objects/v1/tags"

// Tag labels other configuration objects.
type Tag struct {
	Resource
	Color    string `json:"color,omitempty"`
	Comments string `json:"comments,omitempty"`
}

// TagRequest creates or updates a tag.
type TagRequest struct {
	Name     string `json:"name" validate:"required,max=127,scmname"`
	Color    string `json:"color,omitempty" validate:"omitempty,oneof=Red Green Blue Yellow Copper Orange Purple Gray 'Light Green' Cyan 'Light Gray' 'Blue Gray' Lime Black Gold Brown Olive Maroon 'Red-Orange' 'Yellow-Orange' 'Forest Green' 'Turquoise Blue' 'Azure Blue' 'Cerulean Blue' 'Midnight Blue' 'Medium Blue' 'Cobalt Blue' 'Violet Blue' 'Blue Violet' 'Medium Violet' 'Medium Rose' Lavender Orchid Thistle Peach Salmon Magenta 'Red Violet' Mahogany 'Burnt Sienna' Chestnut"`
	Comments string `json:"comments,omitempty" validate:"max=1023"`
	Container
}

// TagService manages tags.
type TagService = ResourceService[Tag, TagRequest]

var tagFilters = filterSet[Tag]{
	"colors": stringsFilter(func(t *Tag) []string { return nonEmpty(t.Color) }),
}

// NewTagService creates a service for tags.
func NewTagService(t Transport, opts ...ServiceOption) (TagService, error) {
	return newResourceService[Tag, TagRequest](resourceDef[Tag]{
		name:     "tag",
		endpoint: TagEndpoint,
		filters:  tagFilters,
	}, t, opts...)
}
