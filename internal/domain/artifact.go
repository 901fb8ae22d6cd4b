package domain

import "time"

// Artifact is an uploaded evidence document. Upload handling and storage
// live elsewhere; the engine only reads artifacts through their explicit
// requirement links.
type Artifact struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"tenant_id"`
	Filename   string     `json:"filename"`
	UploadedAt *time.Time `json:"uploaded_at"`
	Approved   bool       `json:"approved"`
	Deleted    bool       `json:"deleted"`
}

// ArtifactRequirementLink records which artifact satisfies which evidence
// requirement. Evaluation resolves evidence through this join only, never
// through filename matching, so artifacts can never leak across tenants or
// requirements.
type ArtifactRequirementLink struct {
	ArtifactID    string    `json:"artifact_id"`
	RequirementID string    `json:"requirement_id"`
	LinkedAt      time.Time `json:"linked_at"`
}
