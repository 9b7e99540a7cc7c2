package models

// Domain models matching the database schema in db/migrations/0001_init.sql

type Role string

const (
	RoleStudent Role = "student"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable reports whether accounts with this role may sign up on their own.
func (r Role) SelfRegistrable() bool {
	return r == RoleStudent || r == RoleCompany
}

type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
	IsActive     bool   `json:"isActive" db:"is_active"`
	IsVerified   bool   `json:"isVerified" db:"is_verified"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

type Student struct {
	ID               string   `json:"id" db:"id"`
	UserID           string   `json:"userId" db:"user_id"`
	Email            string   `json:"email,omitempty"`
	FirstName        string   `json:"firstName" db:"first_name"`
	LastName         string   `json:"lastName" db:"last_name"`
	Phone            *string  `json:"phone,omitempty" db:"phone"`
	EnrollmentNumber *string  `json:"enrollmentNumber,omitempty" db:"enrollment_number"`
	Branch           *string  `json:"branch,omitempty" db:"branch"`
	CGPA             *float64 `json:"cgpa,omitempty" db:"cgpa"`
	GraduationYear   *int     `json:"graduationYear,omitempty" db:"graduation_year"`
	GithubURL        *string  `json:"githubUrl,omitempty" db:"github_url"`
	LinkedinURL      *string  `json:"linkedinUrl,omitempty" db:"linkedin_url"`
	ResumeURL        *string  `json:"resumeUrl,omitempty" db:"resume_url"`
	IsPlaced         bool     `json:"isPlaced" db:"is_placed"`
	Created          int64    `json:"created" db:"created"`
	Updated          int64    `json:"updated" db:"updated"`

	Education []Education `json:"education,omitempty"`
	Skills    []Skill     `json:"skills,omitempty"`

	// ApplicationsCount is filled by admin listings only.
	ApplicationsCount *int64 `json:"applicationsCount,omitempty"`
}

// HasResume reports whether the student has a resume on file.
func (s *Student) HasResume() bool {
	return s != nil && s.ResumeURL != nil && *s.ResumeURL != ""
}

// StudentUpdate carries a partial profile update; nil fields keep their value.
type StudentUpdate struct {
	FirstName      *string  `json:"firstName"`
	LastName       *string  `json:"lastName"`
	Phone          *string  `json:"phone"`
	Branch         *string  `json:"branch"`
	CGPA           *float64 `json:"cgpa"`
	GraduationYear *int     `json:"graduationYear"`
	GithubURL      *string  `json:"githubUrl"`
	LinkedinURL    *string  `json:"linkedinUrl"`
}

type Education struct {
	ID          string   `json:"id" db:"id"`
	StudentID   string   `json:"studentId" db:"student_id"`
	Degree      string   `json:"degree" db:"degree"`
	Institution string   `json:"institution" db:"institution"`
	StartYear   *int     `json:"startYear,omitempty" db:"start_year"`
	EndYear     *int     `json:"endYear,omitempty" db:"end_year"`
	Percentage  *float64 `json:"percentage,omitempty" db:"percentage"`
	Created     int64    `json:"created" db:"created"`
}

type Skill struct {
	ID               string  `json:"id" db:"id"`
	StudentID        string  `json:"studentId" db:"student_id"`
	SkillName        string  `json:"skillName" db:"skill_name"`
	ProficiencyLevel *string `json:"proficiencyLevel,omitempty" db:"proficiency_level"`
	Created          int64   `json:"created" db:"created"`
}

type Company struct {
	ID          string  `json:"id" db:"id"`
	UserID      string  `json:"userId" db:"user_id"`
	Email       string  `json:"email,omitempty"`
	CompanyName string  `json:"companyName" db:"company_name"`
	Industry    *string `json:"industry,omitempty" db:"industry"`
	Website     *string `json:"website,omitempty" db:"website"`
	Description *string `json:"description,omitempty" db:"description"`
	Address     *string `json:"address,omitempty" db:"address"`
	Phone       *string `json:"phone,omitempty" db:"phone"`
	IsVerified  bool    `json:"isVerified" db:"is_verified"`
	VerifiedBy  *string `json:"verifiedBy,omitempty" db:"verified_by"`
	VerifiedAt  *int64  `json:"verifiedAt,omitempty" db:"verified_at"`
	Created     int64   `json:"created" db:"created"`
	Updated     int64   `json:"updated" db:"updated"`

	// ActiveJobsCount is filled by the company profile view only.
	ActiveJobsCount *int64 `json:"activeJobsCount,omitempty"`
}

// CompanyUpdate carries a partial profile update; nil fields keep their value.
type CompanyUpdate struct {
	CompanyName *string `json:"companyName"`
	Industry    *string `json:"industry"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
}

// DateLayout is the storage and wire format of application deadlines.
const DateLayout = "2006-01-02"

type Job struct {
	ID                  string   `json:"id" db:"id"`
	CompanyID           string   `json:"companyId" db:"company_id"`
	Title               string   `json:"title" db:"title"`
	Description         string   `json:"description" db:"description"`
	PackageLPA          *float64 `json:"packageLpa,omitempty" db:"package_lpa"`
	MinCGPA             *float64 `json:"minCgpa,omitempty" db:"min_cgpa"`
	EligibleBranches    []string `json:"eligibleBranches" db:"eligible_branches"`
	Location            *string  `json:"location,omitempty" db:"location"`
	JobType             *string  `json:"jobType,omitempty" db:"job_type"`
	ApplicationDeadline string   `json:"applicationDeadline" db:"application_deadline"`
	IsActive            bool     `json:"isActive" db:"is_active"`
	Created             int64    `json:"created" db:"created"`
	Updated             int64    `json:"updated" db:"updated"`

	// Company is attached on public listings and details.
	Company *JobCompany `json:"company,omitempty"`
	// ApplicationsCount is filled by the company's own job listing.
	ApplicationsCount *int64 `json:"applicationsCount,omitempty"`
}

// JobCompany is the public slice of a company shown next to its jobs.
type JobCompany struct {
	ID          string  `json:"id"`
	CompanyName string  `json:"companyName"`
	Industry    *string `json:"industry,omitempty"`
	Website     *string `json:"website,omitempty"`
	Description *string `json:"description,omitempty"`
}

// JobUpdate carries a partial job update; nil fields keep their value.
type JobUpdate struct {
	Title               *string   `json:"title"`
	Description         *string   `json:"description"`
	PackageLPA          *float64  `json:"packageLpa"`
	MinCGPA             *float64  `json:"minCgpa"`
	EligibleBranches    *[]string `json:"eligibleBranches"`
	Location            *string   `json:"location"`
	JobType             *string   `json:"jobType"`
	ApplicationDeadline *string   `json:"applicationDeadline"`
}

// JobFilter narrows the public job listing.
type JobFilter struct {
	Branch     string
	MinPackage *float64
	Search     string
	Page       int
	Limit      int
}

// StudentFilter narrows the admin student listing.
type StudentFilter struct {
	Branch   string
	IsPlaced *bool
	Page     int
	Limit    int
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.Pages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}

type Application struct {
	ID          string            `json:"id" db:"id"`
	StudentID   string            `json:"studentId" db:"student_id"`
	JobID       string            `json:"jobId" db:"job_id"`
	ResumeURL   *string           `json:"resumeUrl,omitempty" db:"resume_url"`
	CoverLetter *string           `json:"coverLetter,omitempty" db:"cover_letter"`
	Status      ApplicationStatus `json:"status" db:"status"`
	Applied     int64             `json:"applied" db:"applied"`
	Updated     int64             `json:"updated" db:"updated"`
}

// StudentApplication is an application as the student sees it.
type StudentApplication struct {
	Application
	Title       string   `json:"title"`
	PackageLPA  *float64 `json:"packageLpa,omitempty"`
	CompanyID   string   `json:"companyId"`
	CompanyName string   `json:"companyName"`
}

// JobApplicant is an application as the hiring company sees it.
type JobApplicant struct {
	Application
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	EnrollmentNumber *string  `json:"enrollmentNumber,omitempty"`
	CGPA             *float64 `json:"cgpa,omitempty"`
	Branch           *string  `json:"branch,omitempty"`
	StudentResumeURL *string  `json:"studentResumeUrl,omitempty"`
}

const NotificationApplicationStatus = "application_status_update"

type Notification struct {
	ID        string  `json:"id" db:"id"`
	UserID    string  `json:"userId" db:"user_id"`
	Type      string  `json:"type" db:"type"`
	Title     string  `json:"title" db:"title"`
	Message   string  `json:"message" db:"message"`
	RelatedID *string `json:"relatedId,omitempty" db:"related_id"`
	IsRead    bool    `json:"isRead" db:"is_read"`
	Created   int64   `json:"created" db:"created"`
}

type ParsedResume struct {
	ID              string   `json:"id" db:"id"`
	StudentID       string   `json:"studentId" db:"student_id"`
	ResumeURL       string   `json:"resumeUrl" db:"resume_url"`
	ExtractedSkills []string `json:"extractedSkills" db:"extracted_skills"`
	ContactEmail    *string  `json:"contactEmail,omitempty" db:"contact_email"`
	ContactPhone    *string  `json:"contactPhone,omitempty" db:"contact_phone"`
	ExperienceYears int      `json:"experienceYears" db:"experience_years"`
	RawData         string   `json:"-" db:"raw_data"`
	Parsed          int64    `json:"parsed" db:"parsed"`
}

type DashboardStats struct {
	TotalStudents     int64 `json:"totalStudents"`
	PlacedStudents    int64 `json:"placedStudents"`
	UnplacedStudents  int64 `json:"unplacedStudents"`
	TotalCompanies    int64 `json:"totalCompanies"`
	VerifiedCompanies int64 `json:"verifiedCompanies"`
	PendingCompanies  int64 `json:"pendingCompanies"`
	ActiveJobs        int64 `json:"activeJobs"`
	TotalJobs         int64 `json:"totalJobs"`
	TotalApplications int64 `json:"totalApplications"`
}
