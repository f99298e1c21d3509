package store

import "time"

const (
	RoleParent = "parent"
	RoleAdmin  = "admin"

	RoleMessageUser      = "user"
	RoleMessageAssistant = "assistant"
)

type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose this in JSON responses
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"` // "parent" or "admin"
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Child struct {
	ID           string    `json:"id"`
	ParentID     string    `json:"parent_id"`
	Name         string    `json:"name"`
	DateOfBirth  *string   `json:"date_of_birth"` // ISO date, nullable
	Gender       *string   `json:"gender"`
	BloodType    *string   `json:"blood_type"`
	Allergies    []string  `json:"allergies"`
	MedicalNotes *string   `json:"medical_notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ChatSession struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          *string   `json:"name"` // Derived server-side from the first turn
	InitialPrompt *string   `json:"initial_prompt"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Role         string    `json:"role"` // "user" or "assistant"
	Content      string    `json:"content"`
	SourceChunks []string  `json:"source_chunks,omitempty"` // Assistant citations
	CreatedAt    time.Time `json:"created_at"`
	Persisted    bool      `json:"persisted"` // False only for the canned greeting
}

type VaccinationRecord struct {
	ID          string    `json:"id"`
	ChildID     string    `json:"child_id"`
	VaccineName string    `json:"vaccine_name"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completed_at"`
}

type MilestoneRecord struct {
	ID          string    `json:"id"`
	ChildID     string    `json:"child_id"`
	MilestoneID string    `json:"milestone_id"` // Synthesized composite key
	Category    string    `json:"category"`     // "physical" or "social"
	AgeRange    string    `json:"age_range"`
	Description string    `json:"description"`
	AchievedAt  time.Time `json:"achieved_at"`
}

type Reminder struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	IsCompleted bool      `json:"is_completed"`
	Overdue     bool      `json:"overdue"` // Derived at read time, not stored
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type KnowledgeChunk struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"-"`
}
