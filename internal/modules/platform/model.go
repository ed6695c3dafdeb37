package platform

// Platform is a persisted platform record. ID is assigned by the repository.
type Platform struct {
	ID        int
	Name      string
	Publisher string
	Cost      string
}

// ReadModel is the client and wire facing projection of a Platform.
// It is also the payload propagated to the command service.
type ReadModel struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
	Cost      string `json:"cost"`
}

// CreatePlatformRequest is the payload for creating a platform.
type CreatePlatformRequest struct {
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
	Cost      string `json:"cost"`
}
