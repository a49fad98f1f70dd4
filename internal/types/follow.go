package types

import "time"

// Follow records that FollowerID follows FollowingID. The pair is unique:
// following the same user twice is a conflict, not a second row.
type Follow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID  int64     `gorm:"uniqueIndex:idx_follower_following;not null;column:follower_id" json:"follower_id"`
	FollowingID int64     `gorm:"uniqueIndex:idx_follower_following;not null;column:following_id" json:"following_id"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`

	Follower  *User `gorm:"foreignKey:FollowerID" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}

// FollowWithUser is the list shape returned by /following and /followers:
// the follow row flattened with the counterpart's username and name.
type FollowWithUser struct {
	Follow
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
