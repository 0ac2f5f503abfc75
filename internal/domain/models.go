package domain

import "time"

// UserProfile is the dashboard-facing user record stored under users/{uid}.
type UserProfile struct {
	UID         string    `db:"uid" json:"uid"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Email       string    `db:"email" json:"email"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

// Identity is the credential record backing a UserProfile. Deleting an
// account removes both.
type Identity struct {
	UID           string     `db:"uid"`
	Email         string     `db:"email"`
	PasswordHash  string     `db:"password_hash"`
	EmailVerified bool       `db:"email_verified"`
	Disabled      bool       `db:"disabled"`
	FailedLogins  int        `db:"failed_logins"`
	LastFailedAt  *time.Time `db:"last_failed_at"`
	CreatedAt     time.Time  `db:"created_at"`
}

type TokenKind string

const (
	TokenKindWeb     TokenKind = "web"
	TokenKindDesktop TokenKind = "desktop"
)

type AuthSession struct {
	ID        string    `db:"id"`
	UID       string    `db:"uid"`
	Token     string    `db:"token"`
	Kind      TokenKind `db:"kind"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	LastUsed  time.Time `db:"last_used_at"`
}

type PasswordReset struct {
	ID        string    `db:"id"`
	UID       string    `db:"uid"`
	Token     string    `db:"token"`
	Used      bool      `db:"used"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderLocal     Provider = "local"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderLocal:
		return true
	}
	return false
}

// AiProfile holds a per-user model configuration. APIKey is sealed at rest;
// services hand it out decrypted.
type AiProfile struct {
	ID           string    `db:"id" json:"id"`
	UID          string    `db:"uid" json:"uid"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	Model        string    `db:"model" json:"model"`
	Provider     Provider  `db:"provider" json:"provider"`
	APIKey       *string   `db:"api_key" json:"apiKey,omitempty"`
	Temperature  float64   `db:"temperature" json:"temperature"`
	MaxTokens    int       `db:"max_tokens" json:"maxTokens"`
	SystemPrompt string    `db:"system_prompt" json:"systemPrompt"`
	IsDefault    bool      `db:"is_default" json:"isDefault"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

type SyncState string

const (
	SyncClean SyncState = "clean"
	SyncDirty SyncState = "dirty"
)

type Session struct {
	ID          string     `db:"id"`
	UID         string     `db:"uid"`
	Title       string     `db:"title"`
	SessionType string     `db:"session_type"`
	StartedAt   time.Time  `db:"started_at"`
	EndedAt     *time.Time `db:"ended_at"`
	SyncState   SyncState  `db:"sync_state"`
}

type Transcript struct {
	ID        string     `db:"id"`
	SessionID string     `db:"session_id"`
	StartAt   time.Time  `db:"start_at"`
	EndAt     *time.Time `db:"end_at"`
	Speaker   *string    `db:"speaker"`
	Text      string     `db:"text"`
	Lang      *string    `db:"lang"`
	CreatedAt time.Time  `db:"created_at"`
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type AiMessage struct {
	ID        string      `db:"id"`
	SessionID string      `db:"session_id"`
	SentAt    time.Time   `db:"sent_at"`
	Role      MessageRole `db:"role"`
	Content   string      `db:"content"`
	Tokens    *int        `db:"tokens"`
	Model     *string     `db:"model"`
	CreatedAt time.Time   `db:"created_at"`
}

// Summary is a singleton child of a session.
type Summary struct {
	SessionID   string    `db:"session_id"`
	GeneratedAt time.Time `db:"generated_at"`
	Model       *string   `db:"model"`
	Text        string    `db:"text"`
	TLDR        string    `db:"tldr"`
	BulletJSON  string    `db:"bullet_json"`
	ActionJSON  string    `db:"action_json"`
	TokensUsed  *int      `db:"tokens_used"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type PromptPreset struct {
	ID        string    `db:"id" json:"id"`
	UID       string    `db:"uid" json:"uid"`
	Title     string    `db:"title" json:"title"`
	Prompt    string    `db:"prompt" json:"prompt"`
	IsDefault bool      `db:"is_default" json:"is_default"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}
