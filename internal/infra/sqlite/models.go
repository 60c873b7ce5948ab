package sqlite

import "time"

// --- Catalog ---

type Category struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"not null"`
	Hidden    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Chapter struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Number      int        `gorm:"uniqueIndex;not null"`
	Description string     `gorm:"not null;default:''"`
	Categories  []Category `gorm:"many2many:chapter_categories"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Question struct {
	ID        string   `gorm:"primaryKey;size:36"`
	ChapterID string   `gorm:"index;size:36;not null"`
	Chapter   Chapter  `gorm:"constraint:OnDelete:CASCADE"`
	Text      string   `gorm:"not null"`
	ImageURL  *string
	Answers   []Answer `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Answer struct {
	ID         string `gorm:"primaryKey;size:36"`
	QuestionID string `gorm:"index;size:36;not null"`
	Text       string `gorm:"not null"`
	IsCorrect  bool   `gorm:"not null"`
}

// --- History ---

// RecentAnswer is the latest answer state per user and question.
type RecentAnswer struct {
	UserID     string `gorm:"primaryKey;size:64"`
	QuestionID string `gorm:"primaryKey;size:36"`
	ChapterID  string `gorm:"index;size:36;not null"`
	Correct    bool   `gorm:"not null"`
	AnsweredAt time.Time
}
