package platform

// ToReadModel projects a stored platform onto its read model.
func ToReadModel(p *Platform) ReadModel {
	return ReadModel{
		ID:        p.ID,
		Name:      p.Name,
		Publisher: p.Publisher,
		Cost:      p.Cost,
	}
}

// ToReadModels maps a slice of platforms, never returning nil.
func ToReadModels(platforms []*Platform) []ReadModel {
	out := make([]ReadModel, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, ToReadModel(p))
	}
	return out
}

// ToEntity builds an unsaved platform from a create request. ID stays zero
// until the repository assigns one.
func ToEntity(req CreatePlatformRequest) *Platform {
	return &Platform{
		Name:      req.Name,
		Publisher: req.Publisher,
		Cost:      req.Cost,
	}
}
