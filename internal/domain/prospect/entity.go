package prospect

import "github.com/google/uuid"

// Prospect is a company record owned by exactly one user. Field names
// follow the upstream CRM schema (Algerian administrative divisions and
// business registry identifiers).
type Prospect struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          int64     `json:"-"`
	Entreprise       string    `json:"entreprise"`
	Adresse          *string   `json:"adresse,omitempty"`
	Wilaya           *string   `json:"wilaya,omitempty"`
	Commune          *string   `json:"commune,omitempty"`
	PhoneNumber      *string   `json:"phone_number,omitempty"`
	Email            *string   `json:"email,omitempty"`
	Categorie        *string   `json:"categorie,omitempty"`
	FormeLegale      *string   `json:"forme_legale,omitempty"`
	Secteur          *string   `json:"secteur,omitempty"`
	SousSecteur      *string   `json:"sous_secteur,omitempty"`
	NIF              *string   `json:"nif,omitempty"`
	RegistreCommerce *string   `json:"registre_commerce,omitempty"`
	Status           string    `json:"status"`
}
