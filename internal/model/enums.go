package model

// GradeSystem identifies one of the three difficulty scales. Grades from
// different systems are not comparable; nothing in this package converts
// between them.
type GradeSystem string

const (
	GradeSystemVScale GradeSystem = "v_scale" // V0-V17 bouldering
	GradeSystemYDS    GradeSystem = "yds"     // 5.0-5.15 sport/trad
	GradeSystemFont   GradeSystem = "font"    // 4a-9a european bouldering
)

func (g GradeSystem) Valid() bool {
	switch g {
	case GradeSystemVScale, GradeSystemYDS, GradeSystemFont:
		return true
	}
	return false
}

// ClimbType is the discipline a climb was done in.
type ClimbType string

const (
	ClimbTypeBoulder ClimbType = "boulder"
	ClimbTypeSport   ClimbType = "sport"
	ClimbTypeTrad    ClimbType = "trad"
	ClimbTypeTopRope ClimbType = "top_rope"
)

func (c ClimbType) Valid() bool {
	switch c {
	case ClimbTypeBoulder, ClimbTypeSport, ClimbTypeTrad, ClimbTypeTopRope:
		return true
	}
	return false
}

// LocationType distinguishes gyms from crags.
type LocationType string

const (
	LocationTypeIndoor  LocationType = "indoor"
	LocationTypeOutdoor LocationType = "outdoor"
)

func (l LocationType) Valid() bool {
	return l == LocationTypeIndoor || l == LocationTypeOutdoor
}

// FriendshipStatus is the state of a friendship request.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

func (s FriendshipStatus) Valid() bool {
	switch s {
	case FriendshipPending, FriendshipAccepted, FriendshipBlocked:
		return true
	}
	return false
}
