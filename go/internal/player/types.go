package player

// CreatePlayerRequest carries every field a new player needs. Numeric and
// boolean fields are pointers so a missing field can be told apart from zero.
type CreatePlayerRequest struct {
	Name           string   `json:"name" binding:"required"`
	Gender         string   `json:"gender" binding:"required"`
	Position       string   `json:"position" binding:"required"`
	Species        string   `json:"species" binding:"required"`
	IsSupernatural *bool    `json:"isSupernatural" binding:"required"`
	HeightCm       *float64 `json:"heightCm" binding:"required"`
	WeightKg       *float64 `json:"weightKg" binding:"required"`
	Yards          *float64 `json:"yards" binding:"required"`
	Touchdowns     *float64 `json:"touchdowns" binding:"required"`
	Interceptions  *float64 `json:"interceptions" binding:"required"`
}

// UpdateStatsRequest is a partial stat update; nil fields keep their stored value
type UpdateStatsRequest struct {
	Yards         *float64 `json:"yards"`
	Touchdowns    *float64 `json:"touchdowns"`
	Interceptions *float64 `json:"interceptions"`
}

// Empty reports whether no stat was supplied
func (r UpdateStatsRequest) Empty() bool {
	return r.Yards == nil && r.Touchdowns == nil && r.Interceptions == nil
}

// UpdateProfileRequest is a partial update of the descriptive fields
type UpdateProfileRequest struct {
	Name           *string  `json:"name"`
	Gender         *string  `json:"gender"`
	Position       *string  `json:"position"`
	Species        *string  `json:"species"`
	IsSupernatural *bool    `json:"isSupernatural"`
	HeightCm       *float64 `json:"heightCm"`
	WeightKg       *float64 `json:"weightKg"`
}
