package types

import (
	"strings"
	"time"
)

// User is the persisted profile. IDs come from the identity provider, so the
// primary key is the externally assigned string, not a generated UUID.
type User struct {
	ID               string        `gorm:"primaryKey;column:id" json:"id"`
	Interests        []string      `gorm:"serializer:json;type:jsonb;column:interests" json:"interests"`
	WeightInterest   float64       `gorm:"not null;default:1;column:weight_interest" json:"weightInterest"`
	WeightPreference float64       `gorm:"not null;default:1;column:weight_preference" json:"weightPreference"`
	WeightTransit    float64       `gorm:"not null;default:1;column:weight_transit" json:"weightTransit"`
	LikedPlaces      []*LikedPlace `gorm:"many2many:user_liked_places" json:"likedPlaces"`
	CreatedAt        time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) Weights() Weights {
	return Weights{
		Interest:   u.WeightInterest,
		Preference: u.WeightPreference,
		Transit:    u.WeightTransit,
	}
}

func (u *User) LikedPlaceIDs() []string {
	ids := make([]string, 0, len(u.LikedPlaces))
	for _, p := range u.LikedPlaces {
		ids = append(ids, p.ID)
	}
	return ids
}

// InterestText joins the user's interests into the single string that gets
// embedded for user-to-user similarity.
func (u *User) InterestText() string {
	return strings.Join(u.Interests, ", ")
}

// LikedPlace keys a place by its external place identifier. Rows exist only
// to anchor the like relation; place details are refetched per call.
type LikedPlace struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Users     []*User   `gorm:"many2many:user_liked_places" json:"-"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (LikedPlace) TableName() string {
	return "liked_place"
}

// CommunityUser is the read-only snapshot of another user who liked a place,
// fetched per ranking call and never cached across calls.
type CommunityUser struct {
	ID            string   `json:"id"`
	Interests     []string `json:"interests"`
	LikedPlaceIDs []string `json:"likedPlaceIds"`
}

func (cu CommunityUser) InterestText() string {
	return strings.Join(cu.Interests, ", ")
}
