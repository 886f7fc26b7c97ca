package model

import "time"

// UserStatus 用户角色标记
//
// "owner" 是特权角色，全系统最多只允许存在一个 owner 用户；
// 其余取值（member 等）不受数量限制。
type UserStatus string

const (
	UserStatusOwner  UserStatus = "owner"
	UserStatusMember UserStatus = "member"
)

// User 用户
//
// UserID 是创建时生成的 uuid，同时作为 MongoDB 的 _id。
// Password 只保存 bcrypt 哈希，JSON 序列化时不输出。
type User struct {
	UserID         string     `json:"userId" bson:"_id"`
	Username       string     `json:"username" bson:"username"`
	Email          string     `json:"email" bson:"email"`
	Gender         string     `json:"gender,omitempty" bson:"gender,omitempty"`
	Password       string     `json:"-" bson:"password"` // bcrypt hash, never expose in JSON
	Status         UserStatus `json:"status" bson:"status"`
	Designation    string     `json:"designation" bson:"designation"`
	ProfilePicture *string    `json:"profilePicture" bson:"profile_picture"`
	CreatedAt      time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updated_at"`
}

// IsOwner 是否为 owner 用户
func (u *User) IsOwner() bool {
	return u.Status == UserStatusOwner
}
