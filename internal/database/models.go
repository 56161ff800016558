package database

import (
	"time"

	"gorm.io/datatypes"
)

// NewsArticle 表示一条多语言新闻（id/en/cn 三个语种字段）。
// image_urls 声明为 text：历史数据中存在 JSON 数组之外的编码
// （JSON 字符串、逗号分隔的裸字符串），读取时统一走宽松解析。
type NewsArticle struct {
	ID          string         `gorm:"column:id;primaryKey;size:36"`
	TitleID     string         `gorm:"column:title_id;size:255"`
	TitleEN     string         `gorm:"column:title_en;size:255"`
	TitleCN     string         `gorm:"column:title_cn;size:255"`
	ContentID   string         `gorm:"column:content_id;type:text"`
	ContentEN   string         `gorm:"column:content_en;type:text"`
	ContentCN   string         `gorm:"column:content_cn;type:text"`
	Category    string         `gorm:"column:category;size:32;index"`
	ImageURLs   datatypes.JSON `gorm:"column:image_urls;type:text"`
	PublishedAt *time.Time     `gorm:"column:published_at;index"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (NewsArticle) TableName() string { return "news" }

// JobListing 表示一条招聘信息（仅 id 语种）。
type JobListing struct {
	ID                 string     `gorm:"column:id;primaryKey;size:36"`
	TitleID            string     `gorm:"column:title_id;size:255"`
	LocationID         string     `gorm:"column:location_id;size:255"`
	JobType            string     `gorm:"column:job_type;size:32"`
	DescriptionID      string     `gorm:"column:description_id;type:text"`
	ResponsibilitiesID string     `gorm:"column:responsibilities_id;type:text"`
	QualificationsID   string     `gorm:"column:qualifications_id;type:text"`
	PublishedAt        *time.Time `gorm:"column:published_at;index"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (JobListing) TableName() string { return "job_listings" }

// JobApplication 表示一次求职申请。
// JobID 是软引用：职位删除后申请保留（不做级联）。
// applicant_name 为历史列，写入时与 name 同值。
type JobApplication struct {
	ID             string     `gorm:"column:id;primaryKey;size:36"`
	JobID          string     `gorm:"column:job_id;size:36;index"`
	ApplicantName  *string    `gorm:"column:applicant_name;size:255"`
	Name           string     `gorm:"column:name;size:255"`
	Email          string     `gorm:"column:email;size:255"`
	Phone          string     `gorm:"column:phone;size:64"`
	ResumeURL      string     `gorm:"column:resume_url;size:512"`
	ResumeFilename string     `gorm:"column:resume_filename;size:255"`
	CoverLetter    *string    `gorm:"column:cover_letter;type:text"`
	AppliedAt      time.Time  `gorm:"column:applied_at;index"`
	NotifiedAt     *time.Time `gorm:"column:notified_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (JobApplication) TableName() string { return "job_applications" }

// TeamMember 表示团队成员介绍。
type TeamMember struct {
	ID          string    `gorm:"column:id;primaryKey;size:36"`
	Name        string    `gorm:"column:name;size:255"`
	TitleID     string    `gorm:"column:title_id;size:255"`
	BioID       string    `gorm:"column:bio_id;type:text"`
	ImageURL    string    `gorm:"column:image_url;size:512"`
	LinkedinURL *string   `gorm:"column:linkedin_url;size:512"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (TeamMember) TableName() string { return "team_members" }

// Partner 表示合作伙伴及其 Logo。
type Partner struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	Name      string    `gorm:"column:name;size:255"`
	LogoURL   string    `gorm:"column:logo_url;size:512"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Partner) TableName() string { return "partners" }

// ContactMessage 表示联系表单提交的留言。
// NotifiedAt 由通知 worker 回填。
type ContactMessage struct {
	ID         string     `gorm:"column:id;primaryKey;size:36"`
	Name       string     `gorm:"column:name;size:255"`
	Email      string     `gorm:"column:email;size:255"`
	Subject    string     `gorm:"column:subject;size:255"`
	Message    string     `gorm:"column:message;type:text"`
	NotifiedAt *time.Time `gorm:"column:notified_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }
