package models

type Comment struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Text            string `gorm:"column:comment;type:text;not null" json:"comment"`
	CommentAuthorID uint   `gorm:"not null;index" json:"comment_author_id"`
	CommentAuthor   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"comment_author"`
	PostID          uint   `gorm:"not null;index" json:"post_id"`
	// No edit or delete path; rows only go away with their post
}
