package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Academy struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	LogoURL     string `json:"logo_url"`

	SubscriptionTier string `gorm:"default:free" json:"subscription_tier"`
	MaxPlayers       int    `gorm:"default:200" json:"max_players"`
	MaxCoaches       int    `gorm:"default:10" json:"max_coaches"`
	Status           string `gorm:"default:active" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID        string `gorm:"primaryKey;size:10" json:"id"`
	AcademyID *uint  `gorm:"index" json:"academy_id,omitempty"`

	FirebaseUID string `gorm:"uniqueIndex;default:null" json:"firebase_uid,omitempty"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`

	PasswordHash string `json:"-"`
	FullName     string `json:"full_name"`
	Phone        string `json:"phone,omitempty"`

	Role          Role       `gorm:"type:text;not null;default:parent" json:"role"`
	Status        UserStatus `gorm:"type:text;default:pending_verification" json:"status"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	EmailVerified bool       `gorm:"default:false" json:"email_verified"`

	ProfileImage string     `json:"profile_image,omitempty"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Approved reports whether the account may use the dashboards. Parents are
// approved as soon as they exist; coach/admin accounts need an active status.
func (u *User) Approved() bool {
	if u.Role != RoleCoach && u.Role != RoleAdmin {
		return true
	}
	return u.Status == StatusActive && u.IsActive
}

type RefreshToken struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string    `gorm:"index;size:10" json:"user_id"`
	TokenHash string    `gorm:"not null" json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

type Player struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"not null" json:"first_name"`
	LastName    string     `gorm:"not null" json:"last_name"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`

	ParentID  string `gorm:"index;size:10" json:"parent_id"`
	Parent    *User  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	AcademyID *uint  `gorm:"index" json:"academy_id,omitempty"`

	BattingStyle string `json:"batting_style,omitempty"`
	BowlingStyle string `json:"bowling_style,omitempty"`
	PhotoKey     string `json:"photo_key,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type TrainingSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"type:date;index;not null" json:"date"`
	StartTime   string    `gorm:"not null" json:"start_time"`
	Duration    string    `gorm:"not null" json:"duration"`
	Location    string    `gorm:"not null" json:"location"`

	CoachID   string `gorm:"index;size:10" json:"coach_id"`
	Coach     *User  `gorm:"foreignKey:CoachID" json:"coach,omitempty"`
	AcademyID *uint  `gorm:"index" json:"academy_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID       uint          `gorm:"primaryKey" json:"id"`
	Amount   float64       `gorm:"not null" json:"amount"`
	Currency string        `gorm:"default:INR" json:"currency"`
	Status   PaymentStatus `gorm:"type:text;default:pending;index" json:"status"`
	Notes    string        `json:"notes,omitempty"`

	ParentID  string `gorm:"index;size:10" json:"parent_id"`
	PlayerID  *uint  `gorm:"index" json:"player_id,omitempty"`
	SessionID *uint  `gorm:"index" json:"session_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FitnessRecord struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PlayerID uint      `gorm:"index;not null" json:"player_id"`
	Player   *Player   `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Date     time.Time `gorm:"type:date;index;not null" json:"date"`

	// Free-form metric set (runs, sprint times, beep test level, ...).
	Metrics  datatypes.JSONMap `gorm:"type:jsonb" json:"metrics"`
	Comments string            `gorm:"type:text" json:"comments"`

	RecordedBy string         `gorm:"size:10" json:"recorded_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type MealPlan struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	PlayerID *uint   `gorm:"index" json:"player_id,omitempty"`
	Player   *Player `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Title    string  `gorm:"not null" json:"title"`

	// Array of meal entries: [{"meal":"breakfast","items":[...]}, ...]
	Items datatypes.JSON `gorm:"type:jsonb" json:"items"`

	WeekStart *time.Time     `gorm:"type:date" json:"week_start,omitempty"`
	CreatedBy string         `gorm:"size:10" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Announcement struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Body      string         `gorm:"type:text" json:"body"`
	Audience  string         `gorm:"default:all" json:"audience"` // all | parents | coaches
	Pinned    bool           `gorm:"default:false" json:"pinned"`
	AcademyID *uint          `gorm:"index" json:"academy_id,omitempty"`
	CreatedBy string         `gorm:"size:10" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Invite is a server-issued invitation token. Client-encoded invitations
// (base64 JSON in the URL) never hit this table.
type Invite struct {
	ID        string     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Token     string     `gorm:"uniqueIndex;not null" json:"-"`
	Email     string     `gorm:"index;not null" json:"email"`
	Role      Role       `gorm:"type:text;default:parent" json:"role"`
	PlayerID  *uint      `json:"player_id,omitempty"`
	AcademyID *uint      `json:"academy_id,omitempty"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedBy string     `gorm:"size:10" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"index;size:10;not null" json:"user_id"`
	Action    string         `gorm:"not null" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress string         `json:"ip_address,omitempty"`
	UserAgent string         `json:"user_agent,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
