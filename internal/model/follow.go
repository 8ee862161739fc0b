package model

import "time"

// Follow 订阅关系：UserID 关注 AuthorID
type Follow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:订阅关系id" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_follow_user_author;index:idx_follows_user_id;comment:订阅者id" json:"user_id"`
	AuthorID  int64     `gorm:"not null;uniqueIndex:uq_follow_user_author;index:idx_follows_author_id;comment:作者id" json:"author_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:订阅时间" json:"created_at"`

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
