package prospect

import "crm-service/internal/pkg/optional"

type CreateProspectRequest struct {
	Entreprise       string  `json:"entreprise" binding:"required"`
	Adresse          *string `json:"adresse"`
	Wilaya           *string `json:"wilaya"`
	Commune          *string `json:"commune"`
	PhoneNumber      *string `json:"phone_number"`
	Email            *string `json:"email"`
	Categorie        *string `json:"categorie"`
	FormeLegale      *string `json:"forme_legale"`
	Secteur          *string `json:"secteur"`
	SousSecteur      *string `json:"sous_secteur"`
	NIF              *string `json:"nif"`
	RegistreCommerce *string `json:"registre_commerce"`
	Status           string  `json:"status" binding:"required"`
}

// UpdateProspectRequest leaves absent fields untouched. The nullable
// columns use optional.Value so an explicit null clears them.
type UpdateProspectRequest struct {
	Entreprise       *string                `json:"entreprise"`
	Adresse          optional.Value[string] `json:"adresse"`
	Wilaya           optional.Value[string] `json:"wilaya"`
	Commune          optional.Value[string] `json:"commune"`
	PhoneNumber      optional.Value[string] `json:"phone_number"`
	Email            optional.Value[string] `json:"email"`
	Categorie        optional.Value[string] `json:"categorie"`
	FormeLegale      optional.Value[string] `json:"forme_legale"`
	Secteur          optional.Value[string] `json:"secteur"`
	SousSecteur      optional.Value[string] `json:"sous_secteur"`
	NIF              optional.Value[string] `json:"nif"`
	RegistreCommerce optional.Value[string] `json:"registre_commerce"`
	Status           *string                `json:"status"`
}
