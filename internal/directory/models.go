package directory

// Defaults applied to users without a row, or with null plan columns.
const (
	DefaultSubscriptionTier = "free"
	DefaultMaxDailyQueries  = 10
)

// User is the subset of a users row the gateway reads.
type User struct {
	SubscriptionTier string
	QueriesToday     int
	MaxDailyQueries  int
}

// DefaultUser is the plan reported for phone numbers with no users row.
func DefaultUser() User {
	return User{
		SubscriptionTier: DefaultSubscriptionTier,
		QueriesToday:     0,
		MaxDailyQueries:  DefaultMaxDailyQueries,
	}
}

// Status projects u to its JSON response shape.
func (u User) Status(phoneNumber string) *UserStatus {
	return &UserStatus{
		PhoneNumber:      phoneNumber,
		Status:           u.SubscriptionTier,
		QueriesToday:     u.QueriesToday,
		MaxQueries:       u.MaxDailyQueries,
		QueriesRemaining: u.MaxDailyQueries - u.QueriesToday,
	}
}

// UserStatus is the JSON shape of GET /api/user/status.
type UserStatus struct {
	PhoneNumber      string `json:"phone_number"`
	Status           string `json:"status"`
	QueriesToday     int    `json:"queries_today"`
	MaxQueries       int    `json:"max_queries"`
	QueriesRemaining int    `json:"queries_remaining"`
}

// Stats is the JSON shape of GET /api/stats.
type Stats struct {
	TotalCategories int64 `json:"total_categories"`
	TotalLocations  int64 `json:"total_locations"`
	TotalCompanies  int64 `json:"total_companies"`
	TotalUsers      int64 `json:"total_users"`
}

// HealthResponse is the JSON shape of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}
