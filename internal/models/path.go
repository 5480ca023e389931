package models

type ResourceType string

const (
	ResourceCourse  ResourceType = "course"
	ResourceVideo   ResourceType = "video"
	ResourceWebsite ResourceType = "website"
	ResourceTool    ResourceType = "tool"
	ResourceThread  ResourceType = "thread"
	ResourcePaper   ResourceType = "paper"
)

// NodeResourceTypes are the types a resource inside a generated node may carry.
var NodeResourceTypes = []ResourceType{ResourceCourse, ResourceVideo, ResourceWebsite, ResourceTool}

// DiscoveryResourceTypes are the types the resource discovery contract allows.
var DiscoveryResourceTypes = []ResourceType{ResourceCourse, ResourceVideo, ResourceWebsite, ResourceThread, ResourcePaper}

// AllResourceTypes is the union accepted on input, e.g. in a client's path history.
var AllResourceTypes = []ResourceType{ResourceCourse, ResourceVideo, ResourceWebsite, ResourceTool, ResourceThread, ResourcePaper}

func (t ResourceType) In(allowed []ResourceType) bool {
	for _, a := range allowed {
		if t == a {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type Resource struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        ResourceType `json:"type"`
	URL         string       `json:"url,omitempty"`
	Difficulty  Difficulty   `json:"difficulty,omitempty"`
	Duration    string       `json:"duration,omitempty"`
	Source      string       `json:"source,omitempty"`
}

// PathNode is one step of a career tree. The root has level 0 and no parent.
type PathNode struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Options     []string   `json:"options"`
	Resources   []Resource `json:"resources"`
	Level       int        `json:"level"`
	ParentID    *string    `json:"parentId,omitempty"`
}
