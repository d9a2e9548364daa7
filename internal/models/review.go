package models

import "time"

// ReviewStatus статус рецензии в процессе модерации.
type ReviewStatus string

const (
	// ReviewPending — начальный статус, рецензия ждёт решения модератора.
	ReviewPending ReviewStatus = "PENDING"
	// ReviewApproved — одобрена, терминальный статус, автору начислено 200 баллов.
	ReviewApproved ReviewStatus = "APPROVED"
	// ReviewRejected — отклонена, терминальный статус, баллы не начисляются.
	ReviewRejected ReviewStatus = "REJECTED"
)

// Review представляет рецензию на выпуск издания, написанную подписчиком.
//
// PublicationID денормализован из подписки при отправке, чтобы рецензия
// жила независимо от дальнейших изменений подписки. WordCount и
// SentenceCount вычисляются один раз при отправке и не пересчитываются.
// Рецензия изменяется ровно один раз — решением модератора.
type Review struct {
	ID              int64        `json:"id"`
	UserID          int64        `json:"user_id"`
	SubscriptionID  int64        `json:"subscription_id"`
	PublicationID   int64        `json:"publication_id"`
	IssueNumber     string       `json:"issue_number"`
	PublicationDate time.Time    `json:"publication_date"` // Дата выхода выпуска, указывает автор
	ArticleName     string       `json:"article_name"`
	AuthorLastName  string       `json:"author_last_name"` // Фамилия автора статьи, не рецензента
	Content         string       `json:"content"`
	WordCount       int          `json:"word_count"`
	SentenceCount   int          `json:"sentence_count"`
	Status          ReviewStatus `json:"status"`
	PointsAwarded   int          `json:"points_awarded"` // 0 до одобрения, затем 200
	SubmittedDate   time.Time    `json:"submitted_date"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
}

// ReviewRequest используется для приёма рецензии из JSON-запроса.
// Дата выхода выпуска приходит строкой в формате 2006-01-02.
type ReviewRequest struct {
	SubscriptionID  int64  `json:"subscription_id" validate:"required,gt=0"`
	IssueNumber     string `json:"issue_number" validate:"required"`
	PublicationDate string `json:"publication_date" validate:"required,datetime=2006-01-02"`
	ArticleName     string `json:"article_name" validate:"required"`
	AuthorLastName  string `json:"author_last_name" validate:"required"`
	Content         string `json:"content" validate:"required"`
}

// RejectRequest используется для приёма причины отклонения рецензии.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}
