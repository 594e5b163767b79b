package domain

import "encoding/json"

// Club is the club descriptor from club.json.
type Club struct {
	Name string `json:"name" validate:"required"`
	// RatingPopupRef points at an HTML fragment explaining the grade scale.
	// Relative references resolve against club.json's location.
	RatingPopupRef   string   `json:"rating_popup,omitempty"`
	PermanentMembers []string `json:"permanent_members,omitempty"`
}

// UnmarshalJSON also accepts "ratingPopupRef" for the popup reference.
func (c *Club) UnmarshalJSON(data []byte) error {
	type plain Club
	aux := struct {
		plain
		RatingPopupRefAlt string `json:"ratingPopupRef"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Club(aux.plain)
	if c.RatingPopupRef == "" {
		c.RatingPopupRef = aux.RatingPopupRefAlt
	}
	return nil
}
