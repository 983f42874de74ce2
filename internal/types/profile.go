package types

// PersonalInfo holds the candidate's contact details.
type PersonalInfo struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	LinkedInURL  string `json:"linkedin_url" validate:"omitempty,url"`
	GitHubURL    string `json:"github_url" validate:"omitempty,url"`
	PortfolioURL string `json:"portfolio_url,omitempty" validate:"omitempty,url"`
}

// Education holds the candidate's education details.
type Education struct {
	University     string `json:"university"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	GraduationDate string `json:"graduation_date"`
	GPA            string `json:"gpa,omitempty"`
}

// WorkAuthorization records employment eligibility answers used on
// application forms.
type WorkAuthorization struct {
	USCitizen          bool `json:"us_citizen"`
	RequireSponsorship bool `json:"require_sponsorship"`
}

// Demographics holds optional self-identification answers.
type Demographics struct {
	Gender           string `json:"gender,omitempty"`
	Ethnicity        string `json:"ethnicity,omitempty"`
	Race             string `json:"race,omitempty"`
	VeteranStatus    string `json:"veteran_status,omitempty"`
	DisabilityStatus string `json:"disability_status,omitempty"`
}

// UserProfile is the candidate profile used to fill applications.
type UserProfile struct {
	PersonalInfo      PersonalInfo      `json:"personal_info"`
	Education         Education         `json:"education"`
	WorkAuthorization WorkAuthorization `json:"work_authorization"`
	Demographics      Demographics      `json:"demographics"`
	CustomResponses   map[string]string `json:"custom_responses"`
}

// ResumeSections splits the master resume into editable blocks.
type ResumeSections struct {
	Education  string `json:"education"`
	Experience string `json:"experience"`
	Projects   string `json:"projects"`
	Skills     string `json:"skills"`
}

// MasterResume is the LaTeX resume template that tailoring starts from.
type MasterResume struct {
	LatexSource  string         `json:"latex_source"`
	Sections     ResumeSections `json:"sections"`
	LastModified string         `json:"last_modified"`
}
