package fantasyteam

// CreateTeamRequest carries the descriptive fields of a new team
type CreateTeamRequest struct {
	TeamName     string `json:"teamName" binding:"required"`
	Motto        string `json:"motto"`
	Description  string `json:"description"`
	PlayingStyle string `json:"playingStyle"`
}

// UpdateTeamRequest is a partial update of the descriptive fields; nil fields
// keep their stored value. Membership and totals cannot be set this way.
type UpdateTeamRequest struct {
	TeamName     *string `json:"teamName"`
	Motto        *string `json:"motto"`
	Description  *string `json:"description"`
	PlayingStyle *string `json:"playingStyle"`
}

// Empty reports whether no field was supplied
func (r UpdateTeamRequest) Empty() bool {
	return r.TeamName == nil && r.Motto == nil && r.Description == nil && r.PlayingStyle == nil
}
