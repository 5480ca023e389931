package models

type GenerationKind string

const (
	KindInitial GenerationKind = "initial"
	KindNext    GenerationKind = "next"
)

// GenerationRequest is the discriminated union accepted by the node generator.
// "initial" uses Profile; "next" uses UserProfile, PathHistory and CurrentNode.
type GenerationRequest struct {
	Kind        GenerationKind `json:"kind"`
	Profile     *UserProfile   `json:"profile,omitempty"`
	UserProfile *UserProfile   `json:"userProfile,omitempty"`
	PathHistory []PathNode     `json:"pathHistory,omitempty"`
	CurrentNode *PathNode      `json:"currentNode,omitempty"`
}

// ActiveProfile returns the profile carried by whichever variant this is.
func (r *GenerationRequest) ActiveProfile() *UserProfile {
	if r.Kind == KindNext {
		return r.UserProfile
	}
	return r.Profile
}

func NewInitialRequest(profile UserProfile) GenerationRequest {
	return GenerationRequest{Kind: KindInitial, Profile: &profile}
}

func NewNextRequest(profile UserProfile, history []PathNode, current PathNode) GenerationRequest {
	return GenerationRequest{
		Kind:        KindNext,
		UserProfile: &profile,
		PathHistory: history,
		CurrentNode: &current,
	}
}

const (
	MaxNodeOptions   = 6
	MaxNodeResources = 8
)

type GeneratedNode struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Options     []string   `json:"options"`
	Resources   []Resource `json:"resources"`
}

type GenerationResponse struct {
	Node GeneratedNode `json:"node"`
}
