package models

// Role determines what a user is allowed to do beyond their own data.
type Role string

const (
	RoleUser    Role = "user"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// ExercisePerformanceEntry is one row of the per-user performance ledger:
// a single exercise and its date -> value map. Date keys use ledger.DateLayout
// and are ordered as calendar dates, never lexically.
type ExercisePerformanceEntry struct {
	ID          string             `json:"id"`
	Performance map[string]float64 `json:"performance"`
}

// ActivityAssignment binds an activity to a calendar date for a user.
// At most one assignment exists per (activity id, date) pair.
type ActivityAssignment struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

type User struct {
	ID             string                     `json:"id"`
	Email          string                     `json:"email"`
	FullName       string                     `json:"full_name,omitempty"`
	MobileNumber   string                     `json:"mobile_number,omitempty"`
	DateOfBirth    string                     `json:"date_of_birth,omitempty"`
	Weight         *float64                   `json:"weight,omitempty"`
	Height         *float64                   `json:"height,omitempty"`
	Notes          string                     `json:"notes,omitempty"`
	Sex            string                     `json:"sex,omitempty"`
	Role           Role                       `json:"role"`
	IsActive       bool                       `json:"is_active"`
	IsSuperuser    bool                       `json:"is_superuser"`
	HashedPassword string                     `json:"hashed_password,omitempty"`
	Exercises      []ExercisePerformanceEntry `json:"exercises"`
	Activities     []ActivityAssignment       `json:"activities"`
}

// UserPublic is the API representation of a user: no credentials.
// The ledger and schedule are included because the calendar and progress
// views are rendered from them.
type UserPublic struct {
	ID           string                     `json:"id"`
	Email        string                     `json:"email"`
	FullName     string                     `json:"full_name,omitempty"`
	MobileNumber string                     `json:"mobile_number,omitempty"`
	DateOfBirth  string                     `json:"date_of_birth,omitempty"`
	Weight       *float64                   `json:"weight,omitempty"`
	Height       *float64                   `json:"height,omitempty"`
	Notes        string                     `json:"notes,omitempty"`
	Sex          string                     `json:"sex,omitempty"`
	Role         Role                       `json:"role"`
	IsActive     bool                       `json:"is_active"`
	IsSuperuser  bool                       `json:"is_superuser"`
	Exercises    []ExercisePerformanceEntry `json:"exercises"`
	Activities   []ActivityAssignment       `json:"activities"`
}

// Public strips credentials for API responses.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		MobileNumber: u.MobileNumber,
		DateOfBirth:  u.DateOfBirth,
		Weight:       u.Weight,
		Height:       u.Height,
		Notes:        u.Notes,
		Sex:          u.Sex,
		Role:         u.Role,
		IsActive:     u.IsActive,
		IsSuperuser:  u.IsSuperuser,
		Exercises:    u.Exercises,
		Activities:   u.Activities,
	}
}

// CanManageOthers reports whether the user may act on other users' data:
// create users, mutate any user's activities, list all users.
func (u *User) CanManageOthers() bool {
	return u.IsSuperuser || u.Role == RoleTrainer
}
