package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionStatus is the verification outcome of a proof submission.
// Pending exists for storage compatibility; the engine always resolves
// a submission synchronously to verified or rejected.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionVerified SubmissionStatus = "verified"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is one proof-of-completion attempt (photo + location) for a
// quest. Immutable after insert.
type Submission struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AuditID            string             `bson:"auditId" json:"auditId"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	QuestID            primitive.ObjectID `bson:"questId" json:"questId"`
	UserQuestID        primitive.ObjectID `bson:"userQuestId" json:"userQuestId"`
	ImageURL           string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	SubmittedLatitude  float64            `bson:"submittedLatitude" json:"submittedLatitude"`
	SubmittedLongitude float64            `bson:"submittedLongitude" json:"submittedLongitude"`
	Confidence         int                `bson:"aiConfidence" json:"aiConfidence"`
	Labels             []string           `bson:"aiLabels" json:"aiLabels"`
	Status             SubmissionStatus   `bson:"verificationStatus" json:"verificationStatus"`
	RejectionReason    string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	VerifiedAt         *time.Time         `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
}
